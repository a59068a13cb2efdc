package series

// Metric keys served by the metrics endpoint.
const (
	KeyCPU         = "cpu_usage"
	KeyRAM         = "ram"
	KeyDisk        = "disk"
	KeyNetSent     = "net_sent"
	KeyNetRecv     = "net_recv"
	KeyTemperature = "temperature"
)

// Units a descriptor may carry. They select the display formatting.
const (
	UnitPercent   = "%"
	UnitMegabytes = "MB"
	UnitCelsius   = "°C"
)

// Descriptor is the static configuration of one tracked metric.
type Descriptor struct {
	Key      string `yaml:"key" mapstructure:"key" json:"key"`
	Label    string `yaml:"label" mapstructure:"label" json:"label"`
	Color    string `yaml:"color" mapstructure:"color" json:"color"`
	Target   string `yaml:"target" mapstructure:"target" json:"target"`
	Unit     string `yaml:"unit" mapstructure:"unit" json:"unit"`
	Averaged bool   `yaml:"averaged" mapstructure:"averaged" json:"averaged"`
}

// DefaultDescriptors returns the six metrics the dashboard tracks out of the box.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{Key: KeyCPU, Label: "CPU Usage (%)", Color: "#FF6384", Target: "cpuChart", Unit: UnitPercent, Averaged: true},
		{Key: KeyRAM, Label: "RAM Usage (%)", Color: "#36A2EB", Target: "ramChart", Unit: UnitPercent, Averaged: true},
		{Key: KeyDisk, Label: "Disk Usage (%)", Color: "#4BC0C0", Target: "diskChart", Unit: UnitPercent},
		{Key: KeyNetSent, Label: "Network Sent (MB)", Color: "#9966FF", Target: "netSentChart", Unit: UnitMegabytes},
		{Key: KeyNetRecv, Label: "Network Received (MB)", Color: "#FF9F40", Target: "netRecvChart", Unit: UnitMegabytes},
		{Key: KeyTemperature, Label: "Temperature (°C)", Color: "#FFCD56", Target: "temperatureChart", Unit: UnitCelsius, Averaged: true},
	}
}

// Merge overlays overrides onto base by key. Empty override fields keep the
// base value; unknown keys are appended.
func Merge(base, overrides []Descriptor) []Descriptor {
	out := make([]Descriptor, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.Key] = i
	}

	for _, o := range overrides {
		i, ok := index[o.Key]
		if !ok {
			index[o.Key] = len(out)
			out = append(out, o)
			continue
		}
		d := &out[i]
		if o.Label != "" {
			d.Label = o.Label
		}
		if o.Color != "" {
			d.Color = o.Color
		}
		if o.Target != "" {
			d.Target = o.Target
		}
		if o.Unit != "" {
			d.Unit = o.Unit
		}
		d.Averaged = d.Averaged || o.Averaged
	}
	return out
}

// Keys returns the metric keys of the descriptors in order.
func Keys(descs []Descriptor) []string {
	keys := make([]string, len(descs))
	for i, d := range descs {
		keys[i] = d.Key
	}
	return keys
}
