package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/personakit/personakit/persona"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example persona config",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := persona.WriteDefault(personaPath); err != nil {
				return err
			}
			fmt.Printf("Wrote example persona to %s.\n", personaPath)
			return nil
		},
	}
}
