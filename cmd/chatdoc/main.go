package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "chatdoc",
		Short:        "Ask questions about a document",
		SilenceUsage: true,
	}
	root.AddCommand(serveCMD(), askCMD())

	if err := root.Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
