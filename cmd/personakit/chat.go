package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/personakit/personakit/agent"
	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/persona"
)

func chatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := persona.Load(personaPath)
			if err != nil {
				return err
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.close()

			mgr, err := memory.NewManager(userID, p, d.store, d.retriever, d.memCfg)
			if err != nil {
				return err
			}
			a := agent.New(userID, p, mgr, d.connector,
				agent.WithGenerateTimeout(d.generateTimeout()))

			fmt.Printf("Chatting with %s (persona %s, user %s).\n", p.Name, p.PersonaID, userID)
			fmt.Println("Commands: /remember <key> <value> stores a salient fact, /quit exits.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == "/quit":
					return nil
				case strings.HasPrefix(line, "/remember "):
					fields := strings.SplitN(strings.TrimPrefix(line, "/remember "), " ", 2)
					if len(fields) != 2 {
						fmt.Println("usage: /remember <key> <value>")
						continue
					}
					if err := mgr.SetSalient(fields[0], fields[1]); err != nil {
						return err
					}
					fmt.Printf("Remembered %s.\n", fields[0])
				default:
					response, err := a.ProcessQuery(cmd.Context(), line)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %s\n", p.Name, response)
				}
			}
		},
	}

	cmd.Flags().StringVar(&userID, "user", "local_user", "user ID scoping this session's memory")
	return cmd
}
