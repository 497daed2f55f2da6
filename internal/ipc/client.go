package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ItemsList returns items matching the filter, newest first.
func (c *Client) ItemsList(req ItemsListRequest) (*ItemsListResponse, error) {
	var resp ItemsListResponse
	if err := c.client.Call("Cappuccino.ItemsList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Domains lists the distinct source hostnames across saved items.
func (c *Client) Domains() (*DomainsResponse, error) {
	var resp DomainsResponse
	if err := c.client.Call("Cappuccino.Domains", DomainsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemsDelete removes a single item by id.
func (c *Client) ItemsDelete(id int64) (*ItemsDeleteResponse, error) {
	var resp ItemsDeleteResponse
	if err := c.client.Call("Cappuccino.ItemsDelete", ItemsDeleteRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemsClear removes every saved item.
func (c *Client) ItemsClear() (*ItemsClearResponse, error) {
	var resp ItemsClearResponse
	if err := c.client.Call("Cappuccino.ItemsClear", ItemsClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ThemeSave stores the UI theme.
func (c *Client) ThemeSave(appearance string) (*ThemeSaveResponse, error) {
	var resp ThemeSaveResponse
	if err := c.client.Call("Cappuccino.ThemeSave", ThemeSaveRequest{Appearance: appearance}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ThemeGet fetches the UI theme.
func (c *Client) ThemeGet() (*ThemeGetResponse, error) {
	var resp ThemeGetResponse
	if err := c.client.Call("Cappuccino.ThemeGet", ThemeGetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingsGet fetches the full settings record.
func (c *Client) SettingsGet() (*SettingsGetResponse, error) {
	var resp SettingsGetResponse
	if err := c.client.Call("Cappuccino.SettingsGet", SettingsGetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingsSave applies a partial settings update.
func (c *Client) SettingsSave(req SettingsSaveRequest) (*SettingsSaveResponse, error) {
	var resp SettingsSaveResponse
	if err := c.client.Call("Cappuccino.SettingsSave", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportCSV renders matching items as a CSV document.
func (c *Client) ExportCSV(filter Filter) (*ExportCSVResponse, error) {
	var resp ExportCSVResponse
	if err := c.client.Call("Cappuccino.ExportCSV", ExportCSVRequest{Filter: filter}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches aggregate item counts.
func (c *Client) Stats() (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.client.Call("Cappuccino.Stats", StatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Cappuccino.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon process to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Cappuccino.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Cappuccino.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Cappuccino.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
