package main

import "github.com/Alijeyrad/simorq_mailer/cmd"

func main() {
	cmd.Execute()
}
