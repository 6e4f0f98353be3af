package geelark

import "context"

// Proxy is one provider proxy record.
type Proxy struct {
	ID       string `json:"id"`
	Scheme   string `json:"scheme"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Country  string `json:"countryName"`
}

type proxyPage struct {
	Total int     `json:"total"`
	Items []Proxy `json:"list"`
}

// ListProxies fetches all proxies, following pagination.
func (c *Client) ListProxies(ctx context.Context) ([]Proxy, error) {
	const pageSize = 100
	var all []Proxy
	for page := 1; ; page++ {
		var out proxyPage
		if err := c.do(ctx, "/open/v1/proxy/list", map[string]int{"page": page, "pageSize": pageSize}, &out); err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if len(out.Items) < pageSize || len(all) >= out.Total {
			return all, nil
		}
	}
}

type addProxiesResult struct {
	IDs []string `json:"ids"`
}

// AddProxies registers proxies with the provider and returns their ids.
func (c *Client) AddProxies(ctx context.Context, proxies []Proxy) ([]string, error) {
	var out addProxiesResult
	if err := c.do(ctx, "/open/v1/proxy/add", map[string][]Proxy{"list": proxies}, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

// UpdateProxies updates existing provider proxy records.
func (c *Client) UpdateProxies(ctx context.Context, proxies []Proxy) error {
	return c.do(ctx, "/open/v1/proxy/update", map[string][]Proxy{"list": proxies}, nil)
}

// DeleteProxies removes provider proxy records.
func (c *Client) DeleteProxies(ctx context.Context, ids []string) error {
	return c.do(ctx, "/open/v1/proxy/delete", map[string][]string{"ids": ids}, nil)
}
