package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// runMenu drives the interactive operation loop until the operator exits.
func runMenu(ctx context.Context, in *bufio.Reader, configPath string) error {
	for {
		fmt.Println()
		fmt.Println(cyan.Render("=== gitship ==="))
		fmt.Println("1. Run Packer (create upload package)")
		fmt.Println("2. Run Uploader (upload from package)")
		fmt.Println("3. Run Full Pipeline (pack and upload)")
		fmt.Println("4. Exit")
		fmt.Println()

		fmt.Print("Select operation (1-4): ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			// stdin closed, treat like exit
			fmt.Println("Exiting...")
			return nil
		}

		switch strings.TrimSpace(line) {
		case "1":
			fmt.Println("\n--- Running Packer ---")
			reportAction("Packer", runPacker(ctx, in, configPath))

		case "2":
			fmt.Println("\n--- Running Uploader ---")
			reportAction("Uploader", runUploader(ctx, in, configPath))

		case "3":
			fmt.Println("\n--- Running Full Pipeline ---")
			reportAction("Full pipeline", runPipeline(ctx, in, configPath))

		case "4":
			fmt.Println("Exiting...")
			return nil

		default:
			fmt.Println(red.Render("Invalid choice. Please select 1-4."))
		}
	}
}

func reportAction(name string, err error) {
	if err != nil {
		fmt.Printf("%s %v\n", red.Render("ERROR:"), err)
		fmt.Printf("%s failed or was cancelled.\n", name)
		return
	}
	fmt.Println(green.Render(name + " completed successfully."))
}
