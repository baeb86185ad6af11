package domain

import "io"

// Upload is a file received from the client, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
