package dashboard

import (
	"context"
	"net/http"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/poller"
	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// Endpoints read by the refresh operations.
const (
	EndpointStatus     = "/api/status"
	EndpointDevices    = "/api/devices"
	EndpointTopologies = "/api/topologies"
	EndpointFlows      = "/api/flows"
	EndpointSelection  = "/api/selection"
	EndpointQoS        = "/api/qos"
)

// PanelEndpoint returns the endpoint a panel is refreshed from.
func PanelEndpoint(p Panel) string {
	switch p {
	case PanelStatus:
		return EndpointStatus
	case PanelDevices:
		return EndpointDevices
	case PanelTopologies:
		return EndpointTopologies
	case PanelFlows:
		return EndpointFlows
	case PanelSelection:
		return EndpointSelection
	case PanelQoS:
		return EndpointQoS
	default:
		return ""
	}
}

// Refresher loads backend state into a Board.
type Refresher struct {
	caller remote.Caller
	board  *Board
}

// NewRefresher creates a Refresher writing into board.
func NewRefresher(caller remote.Caller, board *Board) *Refresher {
	return &Refresher{caller: caller, board: board}
}

// Board returns the board the refresher writes to.
func (r *Refresher) Board() *Board {
	return r.board
}

// Operations returns one poller operation per panel, in panel order.
func (r *Refresher) Operations() []poller.Operation {
	return []poller.Operation{
		{Name: string(PanelStatus), Run: r.RefreshStatus},
		{Name: string(PanelDevices), Run: r.RefreshDevices},
		{Name: string(PanelTopologies), Run: r.RefreshTopologies},
		{Name: string(PanelFlows), Run: r.RefreshFlows},
		{Name: string(PanelSelection), Run: r.RefreshSelection},
		{Name: string(PanelQoS), Run: r.RefreshQoS},
	}
}

// RefreshStatus loads the network status panel.
func (r *Refresher) RefreshStatus(ctx context.Context) error {
	var resp statusResponse
	if err := r.fetch(ctx, PanelStatus, EndpointStatus, &resp); err != nil {
		return err
	}
	if resp.DeviceCount == 0 && len(resp.Devices) > 0 {
		resp.DeviceCount = len(resp.Devices)
	}
	r.board.SetStatus(resp.Status)
	return nil
}

// RefreshDevices loads the device list.
func (r *Refresher) RefreshDevices(ctx context.Context) error {
	var resp devicesResponse
	if err := r.fetch(ctx, PanelDevices, EndpointDevices, &resp); err != nil {
		return err
	}
	r.board.SetDevices(resp.Devices)
	return nil
}

// RefreshTopologies loads the topology list.
func (r *Refresher) RefreshTopologies(ctx context.Context) error {
	var resp topologiesResponse
	if err := r.fetch(ctx, PanelTopologies, EndpointTopologies, &resp); err != nil {
		return err
	}
	r.board.SetTopologies(resp.Topologies)
	return nil
}

// RefreshFlows loads the installed flow rules.
func (r *Refresher) RefreshFlows(ctx context.Context) error {
	var resp flowsResponse
	if err := r.fetch(ctx, PanelFlows, EndpointFlows, &resp); err != nil {
		return err
	}
	r.board.SetFlows(resp.Flows)
	return nil
}

// RefreshSelection loads the backend's current selection.
func (r *Refresher) RefreshSelection(ctx context.Context) error {
	var resp selectionResponse
	if err := r.fetch(ctx, PanelSelection, EndpointSelection, &resp); err != nil {
		return err
	}
	r.board.SetSelection(resp.Selection)
	return nil
}

// RefreshQoS loads the QoS limits.
func (r *Refresher) RefreshQoS(ctx context.Context) error {
	var resp qosResponse
	if err := r.fetch(ctx, PanelQoS, EndpointQoS, &resp); err != nil {
		return err
	}
	r.board.SetQoS(resp.QoS)
	return nil
}

// fetch performs a GET and decodes the payload into dest. Failures are
// recorded on the board before being returned.
func (r *Refresher) fetch(ctx context.Context, p Panel, endpoint string, dest any) error {
	err := r.get(ctx, endpoint, dest)
	if err != nil && ctx.Err() == nil {
		r.board.Fail(p, err)
	}
	return err
}

func (r *Refresher) get(ctx context.Context, endpoint string, dest any) error {
	res := r.caller.Call(ctx, endpoint, remote.Options{Method: http.MethodGet})

	var env envelope
	envErr := res.Decode(&env)

	if !res.OK {
		if envErr == nil && env.Message != "" {
			return errors.WrapWithCode(res.Error(), errors.ErrHTTP, env.Message, "")
		}
		return res.Error()
	}
	if envErr != nil {
		return envErr
	}
	if env.Status != "" && env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "backend returned status " + env.Status
		}
		return errors.New(errors.ErrHTTP, msg, "")
	}
	return res.Decode(dest)
}
