package main

import "github.com/AdamJauhari/Bedrock-Editor/pkg/cmd/bedit"

func main() {
	bedit.Execute()
}
