// cmd/httpserver/main.go
package main

import "github.com/jzx17/gothreadpool/pkg/cli"

func main() {
	cli.Execute()
}
