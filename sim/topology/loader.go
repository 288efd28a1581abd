// Package topology reads and writes the line-oriented factory description:
//
//	; comment
//	LOADING_RAMP id=1 delivery-interval=3
//	WORKER id=1 processing-time=2 queue-type=FIFO
//	STOREHOUSE id=1
//	LINK src=ramp-1 dest=worker-1
//
// Blank lines and lines starting with ';' are ignored. LINK records must
// follow the records of both of their endpoints.
package topology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim"
)

// ErrMalformedTopology is wrapped by every load failure.
var ErrMalformedTopology = errors.New("malformed topology")

type recordTag int

const (
	tagRamp recordTag = iota
	tagWorker
	tagStorehouse
	tagLink
)

var recordTags = map[string]recordTag{
	"LOADING_RAMP": tagRamp,
	"ramp":         tagRamp,
	"WORKER":       tagWorker,
	"worker":       tagWorker,
	"STOREHOUSE":   tagStorehouse,
	"store":        tagStorehouse,
	"LINK":         tagLink,
}

// Options configures Load.
type Options struct {
	// Pool supplies package identifiers. Nil gets a fresh pool.
	Pool *sim.IDPool
	// Generators supplies one probability generator per sender.
	// Nil uses a PartitionedRNG with seed 0.
	Generators sim.GeneratorSource
}

// Load builds a Factory from a topology description.
// Any unknown tag, missing or unparsable field, or link to an unknown node
// aborts the load with an error wrapping ErrMalformedTopology. A failed load
// returns every identifier it drew to the pool.
func Load(r io.Reader, opts Options) (*sim.Factory, error) {
	if opts.Pool == nil {
		opts.Pool = sim.NewIDPool()
	}
	if opts.Generators == nil {
		opts.Generators = sim.NewPartitionedRNG(sim.NewSimulationKey(0))
	}
	factory := sim.NewFactory(opts.Pool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		rec, err := parseLine(line)
		if err == nil {
			err = rec.apply(factory, opts)
		}
		if err != nil {
			discard(factory)
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedTopology, lineNo, err)
		}
		logrus.Debugf("topology line %d: %s", lineNo, line)
	}
	if err := scanner.Err(); err != nil {
		discard(factory)
		return nil, fmt.Errorf("reading topology: %w", err)
	}
	return factory, nil
}

// discard removes every node of a partially loaded factory so the identifiers
// its packages drew go back to the pool.
func discard(f *sim.Factory) {
	for _, r := range f.Ramps() {
		f.RemoveRamp(r.ID())
	}
	for _, w := range f.Workers() {
		f.RemoveWorker(w.ID())
	}
	for _, s := range f.Storehouses() {
		f.RemoveStorehouse(s.ID())
	}
}

type record struct {
	tag    recordTag
	params map[string]string
}

func parseLine(line string) (record, error) {
	fields := strings.Fields(line)
	tag, ok := recordTags[fields[0]]
	if !ok {
		return record{}, fmt.Errorf("unknown tag %q", fields[0])
	}
	rec := record{tag: tag, params: make(map[string]string, len(fields)-1)}
	for _, token := range fields[1:] {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return record{}, fmt.Errorf("token %q is not key=value", token)
		}
		rec.params[key] = value
	}
	return rec, nil
}

func (rec record) apply(f *sim.Factory, opts Options) error {
	switch rec.tag {
	case tagRamp:
		id, err := rec.id("id")
		if err != nil {
			return err
		}
		interval, err := rec.offset("delivery-interval")
		if err != nil {
			return err
		}
		r, err := sim.NewRamp(id, interval, opts.Pool, opts.Generators.ForSender(sim.RampRef(id).String()))
		if err != nil {
			return err
		}
		return f.AddRamp(r)

	case tagWorker:
		id, err := rec.id("id")
		if err != nil {
			return err
		}
		duration, err := rec.offset("processing-time")
		if err != nil {
			return err
		}
		qt, err := rec.get("queue-type")
		if err != nil {
			return err
		}
		queueType, err := sim.ParseQueueType(qt)
		if err != nil {
			return err
		}
		w, err := sim.NewWorker(id, duration, sim.NewQueue(queueType), opts.Generators.ForSender(sim.WorkerRef(id).String()))
		if err != nil {
			return err
		}
		return f.AddWorker(w)

	case tagStorehouse:
		id, err := rec.id("id")
		if err != nil {
			return err
		}
		return f.AddStorehouse(sim.NewStorehouse(id, nil))

	default:
		src, err := rec.ref("src")
		if err != nil {
			return err
		}
		dest, err := rec.ref("dest")
		if err != nil {
			return err
		}
		return f.Link(src, dest)
	}
}

func (rec record) get(key string) (string, error) {
	v, ok := rec.params[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	return v, nil
}

func (rec record) id(key string) (sim.ElementID, error) {
	v, err := rec.get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return sim.ElementID(n), nil
}

func (rec record) offset(key string) (sim.TimeOffset, error) {
	v, err := rec.get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return sim.TimeOffset(n), nil
}

func (rec record) ref(key string) (sim.NodeRef, error) {
	v, err := rec.get(key)
	if err != nil {
		return sim.NodeRef{}, err
	}
	return sim.ParseNodeRef(v)
}
