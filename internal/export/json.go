package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

// Document структура JSON-выгрузки.
type Document struct {
	ExportInfo  ExportInfo          `json:"exportInfo"`
	Subscribers []models.Subscriber `json:"subscribers"`
	Statistics  models.Statistics   `json:"statistics"`
}

// ExportInfo метаданные JSON-выгрузки.
type ExportInfo struct {
	AppName          string    `json:"appName"`
	Version          string    `json:"version"`
	ExportDate       time.Time `json:"exportDate"`
	TotalSubscribers int       `json:"totalSubscribers"`
	ExportID         string    `json:"exportId,omitempty"`
}

// JSON полная выгрузка всех полей абонентов со статистикой.
func JSON(in Input) ([]byte, error) {
	const op = "export.JSON"

	subs := make([]models.Subscriber, 0, len(in.Subscribers))
	for _, s := range in.Subscribers {
		s = s.Clone()
		if s.Services == nil {
			s.Services = []string{}
		}
		subs = append(subs, s)
	}

	doc := Document{
		ExportInfo: ExportInfo{
			AppName:          in.Meta.AppName,
			Version:          in.Meta.Version,
			ExportDate:       in.GeneratedAt.UTC(),
			TotalSubscribers: len(subs),
			ExportID:         in.Meta.ExportID,
		},
		Subscribers: subs,
		Statistics:  in.Statistics,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// ParseJSON разбирает JSON-выгрузку обратно в документ.
func ParseJSON(data []byte) (Document, error) {
	const op = "export.ParseJSON"

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%s: %w", op, err)
	}
	if doc.Subscribers == nil {
		doc.Subscribers = []models.Subscriber{}
	}
	for i := range doc.Subscribers {
		if doc.Subscribers[i].Services == nil {
			doc.Subscribers[i].Services = []string{}
		}
	}
	return doc, nil
}
