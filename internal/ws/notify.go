package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AnalysisRefreshedEvent struct {
	Type      string `json:"type"`
	GapCount  int    `json:"gap_count"`
	Stale     bool   `json:"stale"`
	Timestamp string `json:"timestamp"`
}

type RecommendationsReadyEvent struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

// Notifier adapts the hub to the usecase layer's event contract.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) AnalysisRefreshed(userID uuid.UUID, gapCount int, stale bool) {
	if n == nil || n.hub == nil {
		return
	}
	evt := AnalysisRefreshedEvent{
		Type:      "analysis_refreshed",
		GapCount:  gapCount,
		Stale:     stale,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Send(userID, b)
}

func (n *Notifier) RecommendationsReady(userID uuid.UUID, count int) {
	if n == nil || n.hub == nil {
		return
	}
	evt := RecommendationsReadyEvent{
		Type:      "recommendations_ready",
		Count:     count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Send(userID, b)
}
