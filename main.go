package main

import "chat-rooms/cmd/server"

func main() {
	server.NewServer().Run()
}
