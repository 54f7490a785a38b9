// Package probe asks a live switch for its model over SNMP so it can be fed
// to the resolver.
package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/pkg/errors"
)

// Device is what a probe learned about a switch.
type Device struct {
	Host        string
	Description string
	Model       string
}

type Prober struct {
	Port    uint16
	Timeout time.Duration
	Retries int
}

func New() *Prober {
	return &Prober{Port: 161, Timeout: gosnmp.Default.Timeout, Retries: 1}
}

// Discover reads sysDescr and the chassis entPhysicalModelName from host
// using SNMP v2c.
func (p *Prober) Discover(ctx context.Context, host, community string) (*Device, error) {
	g := &gosnmp.GoSNMP{
		Context:   ctx,
		Target:    host,
		Port:      p.Port,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   p.Timeout,
		Retries:   p.Retries,
	}
	if err := g.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect error")
	}
	defer g.Conn.Close()

	dev := &Device{Host: host}

	pkt, err := g.Get([]string{oidSysDescr})
	if err != nil {
		return nil, errors.Wrap(err, "SNMP get error")
	}
	for _, v := range pkt.Variables {
		if b, ok := v.Value.([]byte); ok {
			dev.Description = string(b)
		}
	}

	classes := map[int]int{}
	err = g.BulkWalk(oidPhysicalClass, func(pdu gosnmp.SnmpPDU) error {
		if idx, ok := entityIndex(pdu.Name, oidPhysicalClass); ok {
			classes[idx] = int(gosnmp.ToBigInt(pdu.Value).Int64())
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "SNMP walk error")
	}

	names := map[int]string{}
	err = g.BulkWalk(oidPhysicalModel, func(pdu gosnmp.SnmpPDU) error {
		idx, ok := entityIndex(pdu.Name, oidPhysicalModel)
		if b, isBytes := pdu.Value.([]byte); ok && isBytes {
			names[idx] = strings.TrimSpace(string(b))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "SNMP walk error")
	}

	dev.Model = chassisModel(classes, names)
	if dev.Model == "" {
		dev.Model = modelFromDescription(dev.Description)
	}
	if dev.Model == "" {
		return nil, errors.Errorf("%s did not report a model", host)
	}
	return dev, nil
}

// entityIndex extracts the trailing entPhysicalIndex from a walked OID.
func entityIndex(name, base string) (int, bool) {
	idxStr := strings.TrimPrefix(strings.TrimPrefix(name, "."), base+".")
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// chassisModel picks the model of the lowest-indexed chassis entity that
// has one, falling back to the lowest-indexed named entity.
func chassisModel(classes map[int]int, names map[int]string) string {
	best, fallback := -1, -1
	for idx, name := range names {
		if name == "" {
			continue
		}
		if classes[idx] == classChassis && (best < 0 || idx < best) {
			best = idx
		}
		if fallback < 0 || idx < fallback {
			fallback = idx
		}
	}
	if best >= 0 {
		return names[best]
	}
	if fallback >= 0 {
		return names[fallback]
	}
	return ""
}

var descModel = []*regexp.Regexp{
	// Meraki: "Meraki MS120-8 Cloud Managed Switch"
	regexp.MustCompile(`\b(MS\d{3}[A-Z]?-\d+[A-Z]*)\b`),
	// Catalyst: "Cisco WS-C2960X-48FPD-L running IOS 15.2"
	regexp.MustCompile(`\b((?:WS-)?C\d{4}[A-Z]*-\d+[A-Z0-9-]*)\b`),
}

// modelFromDescription recovers a SKU embedded in sysDescr.
func modelFromDescription(desc string) string {
	for _, re := range descModel {
		if m := re.FindStringSubmatch(desc); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
