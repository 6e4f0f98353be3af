package geelark

import "context"

// CloudPhone is one provider-managed device.
type CloudPhone struct {
	ID          string `json:"id"`
	SerialName  string `json:"serialName"`
	Status      string `json:"status"`
	ProxyServer string `json:"proxyServer"`
	ProxyPort   int    `json:"proxyPort"`
	Country     string `json:"countryName"`
}

type phonePage struct {
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Items []CloudPhone `json:"items"`
}

// ListCloudPhones fetches all cloud phones, following pagination.
func (c *Client) ListCloudPhones(ctx context.Context) ([]CloudPhone, error) {
	const pageSize = 100
	var all []CloudPhone
	for page := 1; ; page++ {
		var out phonePage
		req := map[string]int{"page": page, "pageSize": pageSize}
		if err := c.do(ctx, "/open/v1/phone/list", req, &out); err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if len(out.Items) < pageSize || len(all) >= out.Total {
			return all, nil
		}
	}
}
