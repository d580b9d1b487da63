package redisfeed

import (
	"strconv"

	"github.com/you/route-planner/internal/multicall"
)

// Plan is the feed record of one encoded swap.
type Plan struct {
	Name     string
	To       string
	Calldata string
	Value    string
	TsMs     int64
}

func NewPlan(name, to string, mp multicall.MethodParameters, tsMs int64) Plan {
	return Plan{
		Name:     name,
		To:       to,
		Calldata: mp.CalldataHex(),
		Value:    mp.ValueHex(),
		TsMs:     tsMs,
	}
}

func (p Plan) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":     p.Name,
		"to":       p.To,
		"calldata": p.Calldata,
		"value":    p.Value,
		"ts_ms":    p.TsMs,
	}
}

func planFrom(m map[string]string) Plan {
	ts, _ := strconv.ParseInt(m["ts_ms"], 10, 64)
	return Plan{
		Name:     m["name"],
		To:       m["to"],
		Calldata: m["calldata"],
		Value:    m["value"],
		TsMs:     ts,
	}
}
