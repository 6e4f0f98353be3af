package model

import "time"

// MaxPhonesPerProxy bounds proxy assignments; enforced at write time in the
// service, not by a database constraint.
const MaxPhonesPerProxy = 3

// CreateProxyRequest is the request body for POST /proxies.
type CreateProxyRequest struct {
	Scheme   string `json:"scheme" binding:"omitempty,oneof=socks5 http https"`
	Server   string `json:"server" binding:"required,max=255"`
	Port     int    `json:"port" binding:"required,min=1,max=65535"`
	Username string `json:"username" binding:"omitempty,max=120"`
	Password string `json:"password" binding:"omitempty,max=120"`
	Country  string `json:"country" binding:"omitempty,max=64"`
}

// UpdateProxyRequest is the request body for PATCH /proxies/:id.
type UpdateProxyRequest struct {
	Scheme   *string `json:"scheme" binding:"omitempty,oneof=socks5 http https"`
	Server   *string `json:"server" binding:"omitempty,max=255"`
	Port     *int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Username *string `json:"username" binding:"omitempty,max=120"`
	Password *string `json:"password" binding:"omitempty,max=120"`
	Country  *string `json:"country" binding:"omitempty,max=64"`
}

// SetAssignmentsRequest is the request body for PUT /proxies/:id/assignments.
// Replaces the full device set for one proxy; Reassign moves devices already
// bound to a different proxy instead of rejecting.
type SetAssignmentsRequest struct {
	CloudPhoneIDs []string `json:"cloud_phone_ids" binding:"required"`
	Reassign      bool     `json:"reassign"`
}

// ProxyResponse is the API view of a proxy with its current assignments.
type ProxyResponse struct {
	ID            string    `json:"id"`
	Scheme        string    `json:"scheme"`
	Server        string    `json:"server"`
	Port          int       `json:"port"`
	Username      string    `json:"username,omitempty"`
	Country       string    `json:"country,omitempty"`
	CloudPhoneIDs []string  `json:"cloud_phone_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProxyToResponse converts a proxy entity (with preloaded assignments) to its API view.
func ProxyToResponse(ent *Proxy) ProxyResponse {
	ids := make([]string, 0, len(ent.Assignments))
	for _, a := range ent.Assignments {
		ids = append(ids, a.CloudPhoneID)
	}
	return ProxyResponse{
		ID:            ent.ID,
		Scheme:        ent.Scheme,
		Server:        ent.Server,
		Port:          ent.Port,
		Username:      ent.Username,
		Country:       ent.Country,
		CloudPhoneIDs: ids,
		CreatedAt:     ent.CreatedAt,
		UpdatedAt:     ent.UpdatedAt,
	}
}
