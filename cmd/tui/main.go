package main

import (
	"fmt"
	"os"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/cmd/tui/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	apiURL := os.Getenv("ATTENDLY_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	apiClient, err := client.NewClient(apiURL)
	if err != nil {
		fmt.Printf("Failed to create API client: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		ui.NewModel(apiClient),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
