package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestS3Storage_PublicURL(t *testing.T) {
	s := &S3Storage{cfg: S3Config{
		BaseEndpoint: "http://127.0.0.1:9000/",
		Bucket:       "archepal-images",
	}}

	got := s.PublicURL("users/field-user/art42_deadbeef.jpg")
	assert.Equal(t, "http://127.0.0.1:9000/archepal-images/users/field-user/art42_deadbeef.jpg", got)
}
