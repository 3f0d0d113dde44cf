package dashboard

import (
	"encoding/json"
	"sort"
)

// Panel names one section of the dashboard.
type Panel string

const (
	PanelStatus     Panel = "status"
	PanelDevices    Panel = "devices"
	PanelTopologies Panel = "topologies"
	PanelFlows      Panel = "flows"
	PanelSelection  Panel = "selection"
	PanelQoS        Panel = "qos"
)

// Panels lists every panel in refresh order.
func Panels() []Panel {
	return []Panel{PanelStatus, PanelDevices, PanelTopologies, PanelFlows, PanelSelection, PanelQoS}
}

// envelope is the wrapper every backend response carries.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Status is the network status panel.
type Status struct {
	NetworkRunning bool `json:"network_running"`
	DeviceCount    int  `json:"device_count"`
}

type statusResponse struct {
	Status
	Devices []Device `json:"devices"`
}

// Device is a switch known to the controller.
type Device struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Available bool   `json:"available"`
	Role      string `json:"role,omitempty"`
	Mfr       string `json:"mfr,omitempty"`
	SW        string `json:"sw,omitempty"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}

// Topology is an emulated network layout the backend can run.
type Topology struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hosts       int    `json:"hosts,omitempty"`
	Switches    int    `json:"switches,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare topology name.
func (t *Topology) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Topology{Name: name}
		return nil
	}
	type plain Topology
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Topology(p)
	return nil
}

type topologiesResponse struct {
	Topologies []Topology `json:"topologies"`
}

// Flow is an installed flow rule.
type Flow struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	Priority int    `json:"priority"`
	State    string `json:"state"`
	TableID  int    `json:"tableId"`
	AppID    string `json:"appId,omitempty"`
	Packets  int64  `json:"packets"`
	Bytes    int64  `json:"bytes"`
	Life     int64  `json:"life"`
}

type flowsResponse struct {
	Flows []Flow `json:"flows"`
}

// Selection is the topology and flow rule set the backend is using.
type Selection struct {
	Topology string `json:"topology"`
	FlowSet  string `json:"flow_set"`
}

type selectionResponse struct {
	Selection Selection `json:"selection"`
}

// QoS holds the bandwidth limit per traffic class.
type QoS struct {
	BandwidthLimits map[string]string `json:"bandwidth_limits"`
	OVSOutput       string            `json:"ovs_output,omitempty"`
}

// Classes returns the traffic classes sorted by name.
func (q QoS) Classes() []string {
	classes := make([]string, 0, len(q.BandwidthLimits))
	for class := range q.BandwidthLimits {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

type qosResponse struct {
	QoS QoS `json:"qos"`
}

// NextTopology returns the name following current in topologies, wrapping
// around. An unknown or empty current selects the first topology.
func NextTopology(topologies []Topology, current string) string {
	if len(topologies) == 0 {
		return ""
	}
	for i, t := range topologies {
		if t.Name == current {
			return topologies[(i+1)%len(topologies)].Name
		}
	}
	return topologies[0].Name
}
