// Package dataapi runs statements through the Aurora Serverless Data API.
// Results arrive as tagged cells ({"stringValue": ...}, {"longValue": ...}).
package dataapi

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rdsdataservice"
	"github.com/aws/aws-sdk-go/service/rdsdataservice/rdsdataserviceiface"
	"github.com/sirupsen/logrus"
)

// Config identifies the cluster and credentials secret to run statements against
type Config struct {
	ClusterARN string
	SecretARN  string
	Database   string
	Region     string
}

// Executor implements executor.Executor over the Data API
type Executor struct {
	client rdsdataserviceiface.RDSDataServiceAPI
	cfg    Config
	logger *logrus.Logger
	closed atomic.Bool
}

var _ executor.Executor = (*Executor)(nil)

// New creates an executor with a client built from the default AWS
// credential chain.
func New(cfg Config, logger *logrus.Logger) (*Executor, error) {
	awsCfg := &aws.Config{CredentialsChainVerboseErrors: aws.Bool(true)}
	if cfg.Region != "" {
		awsCfg.Region = aws.String(cfg.Region)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewWithClient(rdsdataservice.New(sess), cfg, logger), nil
}

// NewWithClient creates an executor around an existing client
func NewWithClient(client rdsdataserviceiface.RDSDataServiceAPI, cfg Config, logger *logrus.Logger) *Executor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Executor{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Driver implements executor.Executor
func (e *Executor) Driver() string {
	return executor.DriverDataAPI
}

// Query implements executor.Executor
func (e *Executor) Query(ctx context.Context, query string, params mapper.StorageParams) (mapper.RawRows, error) {
	out, err := e.execute(ctx, "query", query, params)
	if err != nil {
		return nil, err
	}
	return toTaggedCells(out), nil
}

// Exec implements executor.Executor
func (e *Executor) Exec(ctx context.Context, query string, params mapper.StorageParams) (executor.Result, error) {
	out, err := e.execute(ctx, "exec", query, params)
	if err != nil {
		return executor.Result{}, err
	}

	var res executor.Result
	res.RowsAffected = aws.Int64Value(out.NumberOfRecordsUpdated)
	if len(out.GeneratedFields) > 0 && out.GeneratedFields[0] != nil {
		res.LastInsertID = aws.Int64Value(out.GeneratedFields[0].LongValue)
	}
	return res, nil
}

// ServerTime implements executor.Executor
func (e *Executor) ServerTime(ctx context.Context) (string, error) {
	out, err := e.execute(ctx, "server_time", "SELECT NOW()", nil)
	if err != nil {
		return "", err
	}

	recs := mapper.NormalizeRows(toTaggedCells(out))
	if len(recs) == 0 {
		return "", fmt.Errorf("server time query returned no rows")
	}
	for _, v := range recs[0] {
		return fmt.Sprint(mapper.Scalar(v)), nil
	}
	return "", fmt.Errorf("server time query returned no columns")
}

// Ping implements executor.Executor
func (e *Executor) Ping(ctx context.Context) error {
	_, err := e.execute(ctx, "ping", "SELECT 1", nil)
	return err
}

// Close implements executor.Executor. The client holds no connection, so
// closing only stops further statements.
func (e *Executor) Close() error {
	e.closed.Store(true)
	return nil
}

func (e *Executor) execute(ctx context.Context, operation, query string, params mapper.StorageParams) (*rdsdataservice.ExecuteStatementOutput, error) {
	if e.closed.Load() {
		return nil, executor.ErrClosed
	}

	input := &rdsdataservice.ExecuteStatementInput{
		ResourceArn:           aws.String(e.cfg.ClusterARN),
		SecretArn:             aws.String(e.cfg.SecretARN),
		Sql:                   aws.String(query),
		IncludeResultMetadata: aws.Bool(true),
		Parameters:            toSQLParameters(params),
	}
	if e.cfg.Database != "" {
		input.Database = aws.String(e.cfg.Database)
	}

	start := time.Now()
	out, err := e.client.ExecuteStatementWithContext(ctx, input)
	e.logQuery(operation, query, params, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("execute statement failed: %w", err)
	}
	return out, nil
}

func (e *Executor) logQuery(operation, query string, params mapper.StorageParams, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"driver":    executor.DriverDataAPI,
		"query":     query,
		"args":      params.Named(),
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		e.logger.WithFields(fields).Error("Query failed")
	} else {
		e.logger.WithFields(fields).Debug("Query executed")
	}
}

func toSQLParameters(params mapper.StorageParams) []*rdsdataservice.SqlParameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*rdsdataservice.SqlParameter, 0, len(params))
	for _, p := range params {
		out = append(out, toSQLParameter(p))
	}
	return out
}

func toSQLParameter(p mapper.Param) *rdsdataservice.SqlParameter {
	param := &rdsdataservice.SqlParameter{
		Name:  aws.String(p.Name),
		Value: &rdsdataservice.Field{},
	}
	if p.TypeHint != "" && p.Kind != mapper.KindNull {
		param.TypeHint = aws.String(p.TypeHint)
	}

	switch p.Kind {
	case mapper.KindString:
		param.Value.StringValue = aws.String(p.StringValue())
	case mapper.KindLong:
		param.Value.LongValue = aws.Int64(p.LongValue())
	case mapper.KindDouble:
		param.Value.DoubleValue = aws.Float64(p.DoubleValue())
	default:
		param.Value.IsNull = aws.Bool(true)
	}
	return param
}

func toTaggedCells(out *rdsdataservice.ExecuteStatementOutput) mapper.TaggedCells {
	cells := mapper.TaggedCells{
		Metadata: make([]mapper.ColumnMeta, 0, len(out.ColumnMetadata)),
		Records:  make([][]mapper.TaggedCell, 0, len(out.Records)),
	}
	for _, col := range out.ColumnMetadata {
		name := aws.StringValue(col.Name)
		if name == "" {
			name = aws.StringValue(col.Label)
		}
		cells.Metadata = append(cells.Metadata, mapper.ColumnMeta{Name: name})
	}
	for _, record := range out.Records {
		row := make([]mapper.TaggedCell, 0, len(record))
		for _, field := range record {
			row = append(row, toCell(field))
		}
		cells.Records = append(cells.Records, row)
	}
	return cells
}

// toCell keeps the Data API's single-key shape. NULL becomes an empty cell.
func toCell(f *rdsdataservice.Field) mapper.TaggedCell {
	switch {
	case f == nil || aws.BoolValue(f.IsNull):
		return mapper.TaggedCell{}
	case f.StringValue != nil:
		return mapper.TaggedCell{"stringValue": *f.StringValue}
	case f.LongValue != nil:
		return mapper.TaggedCell{"longValue": *f.LongValue}
	case f.DoubleValue != nil:
		return mapper.TaggedCell{"doubleValue": *f.DoubleValue}
	case f.BooleanValue != nil:
		return mapper.TaggedCell{"booleanValue": *f.BooleanValue}
	case f.BlobValue != nil:
		return mapper.TaggedCell{"blobValue": f.BlobValue}
	case f.ArrayValue != nil:
		return mapper.TaggedCell{"arrayValue": f.ArrayValue}
	default:
		return mapper.TaggedCell{}
	}
}
