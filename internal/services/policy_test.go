package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-rooms/internal/models"
)

func TestOccupancy_PublicCountsMembers(t *testing.T) {
	req := require.New(t)
	room := &models.Room{IsPublic: true}

	req.Equal(0, occupancy(room, 0, 10))
	req.Equal(3, occupancy(room, 3, 10))
}

func TestOccupancy_PrivateIsTotalMinusOne(t *testing.T) {
	req := require.New(t)
	room := &models.Room{IsPublic: false}

	// Legacy rule: "everyone except the requester", not a member count.
	req.Equal(9, occupancy(room, 3, 10))

	// With an empty user table the rule even goes negative.
	// Preserved literally for behavioral compatibility.
	req.Equal(-1, occupancy(room, 0, 0))
}

func TestVisibleMembers(t *testing.T) {
	req := require.New(t)
	members := []models.User{{Username: "bob"}}
	all := []models.User{{Username: "alice"}, {Username: "bob"}, {Username: "carol"}}

	public := &models.Room{IsPublic: true}
	req.Equal(members, visibleMembers(public, members, all))

	// Private rooms expose the full user set (legacy anomaly).
	private := &models.Room{IsPublic: false}
	req.Equal(all, visibleMembers(private, members, all))
}
