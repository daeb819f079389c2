package websocket

// ServeWs registers the client and pumps frames until the peer goes away.
// It blocks for the life of the connection.
func ServeWs(c *Client) {
	c.Hub.Register(c)

	go c.writePump()
	c.readPump()
}
