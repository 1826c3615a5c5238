package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectName(t *testing.T) {
	owner, _ := primitive.ObjectIDFromHex("64b1f0c2a1b2c3d4e5f60718")
	at := time.UnixMilli(1717171717171)

	assert.Equal(t, "photo_64b1f0c2a1b2c3d4e5f60718_1717171717171.jpg", ObjectName(owner, "Pipe.JPG", at))
	assert.Equal(t, "photo_64b1f0c2a1b2c3d4e5f60718_1717171717171", ObjectName(owner, "noext", at))
}

func TestObjectFromURL(t *testing.T) {
	assert.Equal(t, "photo_a_1.png", objectFromURL("/uploads/photo_a_1.png"))
	assert.Equal(t, "", objectFromURL("/uploads/../secret"))
	assert.Equal(t, "", objectFromURL("/uploads/"))
	assert.Equal(t, "", objectFromURL("photo_a_1.png"))
	assert.Equal(t, "", objectFromURL("/uploads/a/b.png"))
}
