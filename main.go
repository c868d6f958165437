package main

import "github.com/Abdulrahman-Alsuhaymi/Stocker/cmd"

func main() {
	cmd.Execute()
}
