package config

// ProcessGateway exports processGateway for testing without reading .env.
func ProcessGateway() (*Gateway, error) { return processGateway() }

// ProcessOrchestrator exports processOrchestrator for testing without reading .env.
func ProcessOrchestrator() (*Orchestrator, error) { return processOrchestrator() }
