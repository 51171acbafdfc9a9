package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// ClickHouseConfig tells where a ClickHouse recorder writes to.
type ClickHouseConfig struct {
	Addr      string
	Database  string
	Username  string
	Password  string
	BatchSize int
}

type clickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	tables     map[string]*table
	entryCount int
	closed     bool
}

// NewClickHouseRecorder creates a DataRecorder that writes to a ClickHouse
// server.
func NewClickHouseRecorder(cfg ClickHouseConfig) (DataRecorder, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:      30 * time.Second,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	err = conn.Ping(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	r := &clickHouseRecorder{
		conn:      conn,
		batchSize: cfg.BatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { r.Close() })

	return r, nil
}

func (r *clickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ddl, err := clickHouseCreateTableSQL(tableName, sampleEntry)
	if err != nil {
		panic(err)
	}

	err = r.conn.Exec(context.Background(), ddl)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (r *clickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.flush()
	}
}

func (r *clickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *clickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flush()
}

func (r *clickHouseRecorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.flush()
	r.closed = true

	err := r.conn.Close()
	if err != nil {
		panic(err)
	}
}

func (r *clickHouseRecorder) flush() {
	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
		if err != nil {
			panic(fmt.Errorf("failed to prepare batch for %s: %w",
				tableName, err))
		}

		for _, entry := range t.entries {
			err = batch.Append(clickHouseRow(entry)...)
			if err != nil {
				panic(err)
			}
		}

		err = batch.Send()
		if err != nil {
			panic(fmt.Errorf("failed to send batch for %s: %w", tableName, err))
		}

		t.entries = nil
	}

	r.entryCount = 0
}

func clickHouseColumnType(kind reflect.Kind) (string, bool) {
	switch kind {
	case reflect.Bool:
		return "Bool", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return "Int64", true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return "UInt64", true
	case reflect.Float32, reflect.Float64:
		return "Float64", true
	case reflect.String:
		return "String", true
	default:
		return "", false
	}
}

func clickHouseCreateTableSQL(tableName string, sampleEntry any) (string, error) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		return "", err
	}

	t := reflect.TypeOf(sampleEntry)
	columns := make([]string, t.NumField())

	for i := range columns {
		field := t.Field(i)
		colType, _ := clickHouseColumnType(field.Type.Kind())
		columns[i] = field.Name + " " + colType
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree() ORDER BY tuple()",
		tableName, strings.Join(columns, ", ")), nil
}

// clickHouseRow widens the fields of entry to the column types.
func clickHouseRow(entry any) []any {
	v := reflect.ValueOf(entry)
	row := make([]any, v.NumField())

	for i := range row {
		f := v.Field(i)

		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
			reflect.Int64:
			row[i] = f.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
			reflect.Uint64:
			row[i] = f.Uint()
		case reflect.Float32, reflect.Float64:
			row[i] = f.Float()
		case reflect.Bool:
			row[i] = f.Bool()
		default:
			row[i] = f.String()
		}
	}

	return row
}
