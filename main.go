package main

import (
	sixcities "github.com/manifest-network/six-cities-client/cmd/six-cities-client"
)

func main() {
	sixcities.Execute()
}
