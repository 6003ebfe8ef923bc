package main

import "prestito/cmd/prestito-cli/cmd"

func main() {
	cmd.Execute()
}
