package tracing

import (
	"context"
	"sort"

	"github.com/sarchlab/linksim/datarecording"
)

// EventQuery is used to define the events to be queried. Not all the field
// has to be set. If the fields are empty, the criteria is ignored.
type EventQuery struct {
	// Use Kind to select all the events of a kind.
	Kind string

	// Use Actor to select all the events of a node, controller or session.
	Actor string

	// Enable time range selection.
	EnableTimeRange bool

	// StartTime and EndTime bound the time of the selected events.
	StartTime, EndTime float64

	// Limit caps the number of events. Zero means no limit.
	Limit int
}

// TraceReader can parse a recorded event stream.
type TraceReader interface {
	// ListActors returns all the actors that appear in the trace.
	ListActors(ctx context.Context) ([]string, error)

	// ListEvents returns the selected events ordered by Seq and the number of
	// events that match, ignoring the limit.
	ListEvents(ctx context.Context, query EventQuery) ([]Event, int, error)
}

type dbTraceReader struct {
	reader datarecording.DataReader
}

// NewTraceReader creates a TraceReader on the tables of a DataReader.
func NewTraceReader(reader datarecording.DataReader) TraceReader {
	reader.MapTable(EventTable, Event{})

	return &dbTraceReader{reader: reader}
}

func (r *dbTraceReader) ListActors(ctx context.Context) ([]string, error) {
	events, _, err := r.ListEvents(ctx, EventQuery{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.Actor] = true
	}

	actors := make([]string, 0, len(seen))
	for a := range seen {
		actors = append(actors, a)
	}

	sort.Strings(actors)

	return actors, nil
}

func (r *dbTraceReader) ListEvents(
	ctx context.Context,
	query EventQuery,
) ([]Event, int, error) {
	params := datarecording.QueryParams{
		OrderBy: "Seq",
		Limit:   query.Limit,
	}

	addCondition := func(cond string, arg any) {
		if params.Where != "" {
			params.Where += " AND "
		}

		params.Where += cond
		params.Args = append(params.Args, arg)
	}

	if query.Kind != "" {
		addCondition("Kind = ?", query.Kind)
	}

	if query.Actor != "" {
		addCondition("Actor = ?", query.Actor)
	}

	if query.EnableTimeRange {
		addCondition("Time >= ?", query.StartTime)
		addCondition("Time <= ?", query.EndTime)
	}

	rows, total, err := r.reader.Query(ctx, EventTable, params)
	if err != nil {
		return nil, 0, err
	}

	events := make([]Event, len(rows))
	for i, row := range rows {
		events[i] = *row.(*Event)
	}

	return events, total, nil
}
