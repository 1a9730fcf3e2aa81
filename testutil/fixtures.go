package testutil

import (
	"fmt"
	"time"
)

// fixtureEpoch anchors fixture creation times
var fixtureEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// CreatedAt formats the creation time of the nth fixture row
func CreatedAt(n int) string {
	return fixtureEpoch.Add(time.Duration(n) * time.Hour).Format("2006-01-02T15:04:05.000+00:00")
}

// PropertyTypes cycles through the property types used by SeedProperties
var PropertyTypes = []string{"House", "Apartment", "Villa", "Townhouse"}

// TestUser is the account returned for TestUserID
func TestUser() map[string]interface{} {
	return map[string]interface{}{
		"$id":   TestUserID,
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
	}
}

// Agent returns an agent row
func Agent(id, name string) map[string]interface{} {
	return map[string]interface{}{
		"$id":        id,
		"$createdAt": CreatedAt(0),
		"name":       name,
		"email":      id + "@restate.example",
		"avatar":     "https://example.com/agents/" + id + ".png",
	}
}

// Property returns the nth property row, managed by agentID
func Property(n int, agentID string) map[string]interface{} {
	return map[string]interface{}{
		"$id":        fmt.Sprintf("prop-%d", n),
		"$createdAt": CreatedAt(n),
		"name":       fmt.Sprintf("Property %d", n),
		"type":       PropertyTypes[n%len(PropertyTypes)],
		"address":    fmt.Sprintf("%d Harbour Street", n),
		"price":      float64(1000 + 100*n),
		"rating":     4.5,
		"agent":      agentID,
	}
}

// Review returns a review row for propertyID
func Review(id, propertyID, text string) map[string]interface{} {
	return map[string]interface{}{
		"$id":        id,
		"$createdAt": CreatedAt(1),
		"name":       "Reviewer " + id,
		"review":     text,
		"rating":     5,
		"property":   propertyID,
	}
}

// SeedProperties loads n properties, two agents, three reviews and a
// gallery into m. Property prop-1 has two reviews and agent-a.
func SeedProperties(m *MockBackend, n int) {
	m.AddRows(TestAgentsTable, Agent("agent-a", "Alice Agent"), Agent("agent-b", "Bob Broker"))
	for i := 1; i <= n; i++ {
		agent := "agent-a"
		if i%2 == 0 {
			agent = "agent-b"
		}
		m.AddRows(TestPropertiesTable, Property(i, agent))
	}
	m.AddRows(TestReviewsTable,
		Review("review-1", "prop-1", "Lovely light in the mornings."),
		Review("review-2", "prop-1", "Quiet street, great pool."),
		Review("review-3", "prop-2", "Close to the station."),
	)
	m.AddRows(TestGalleriesTable, map[string]interface{}{
		"$id":        "gallery-1",
		"$createdAt": CreatedAt(0),
		"image":      "https://example.com/gallery/1.jpg",
	})
}
