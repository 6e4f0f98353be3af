package model

import "time"

// CloudPhoneResponse is the API view of a cached cloud phone.
type CloudPhoneResponse struct {
	ID          string    `json:"id"`
	SerialName  string    `json:"serial_name"`
	Status      string    `json:"status"`
	ProxyServer string    `json:"proxy_server,omitempty"`
	ProxyPort   int       `json:"proxy_port,omitempty"`
	Country     string    `json:"country,omitempty"`
	SyncedAt    time.Time `json:"synced_at"`
}

// CloudPhoneToResponse converts a cached device row to its API view.
func CloudPhoneToResponse(ent *CloudPhone) CloudPhoneResponse {
	return CloudPhoneResponse{
		ID:          ent.ID,
		SerialName:  ent.SerialName,
		Status:      ent.Status,
		ProxyServer: ent.ProxyServer,
		ProxyPort:   ent.ProxyPort,
		Country:     ent.Country,
		SyncedAt:    ent.SyncedAt,
	}
}
