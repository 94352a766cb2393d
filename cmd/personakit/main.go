// Command personakit runs the persona agent: an interactive chat loop, a
// WebSocket server, and the offline knowledge ingestion pipeline.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	personaPath string
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "personakit",
		Short:         "Conversational agent with three-source memory fusion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "personakit.yaml", "application config file")
	root.PersistentFlags().StringVar(&personaPath, "persona", "config/personas/default.json", "persona config file")

	root.AddCommand(chatCmd(), serveCmd(), ingestCmd(), initCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
