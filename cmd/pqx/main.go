// Command pqx is the Paquexpress command-line client.
package main

import "github.com/paquexpress/client-go/internal/cli"

func main() {
	cli.Execute()
}
