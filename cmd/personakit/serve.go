package main

import (
	"github.com/spf13/cobra"

	"github.com/personakit/personakit/persona"
	"github.com/personakit/personakit/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over WebSocket",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := persona.Load(personaPath)
			if err != nil {
				return err
			}
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.close()

			srv, err := server.New(server.Config{
				Persona:         p,
				Store:           d.store,
				Retriever:       d.retriever,
				Connector:       d.connector,
				MemoryConfig:    d.memCfg,
				GenerateTimeout: d.generateTimeout(),
			})
			if err != nil {
				return err
			}
			return srv.Run(d.cfg.Server.ListenAddr)
		},
	}
}
