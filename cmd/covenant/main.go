// cmd/covenant/main.go
package main

import (
	"github.com/joho/godotenv"
	cmd "github.com/mwiater/covenant/internal/commands"
)

// main starts the covenant CLI application by delegating to the cobra root
// command. A local .env file, when present, seeds the process environment
// before configuration is read.
func main() {
	_ = godotenv.Load()
	cmd.Execute()
}
