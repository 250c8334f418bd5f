package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// ErrTooFewOpts is returned when a serde is built without a subject or a
// schema identifier.
var ErrTooFewOpts = errors.New("too few options")

// A SchemaIdentifier returns the registry id of a schema text under
// subject, registering it when needed.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (int, error)
}

// A Serde writes values in the schema registry wire format: a magic
// byte, the big endian schema id, then the Avro body.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// ValueSubject names the value schema subject of topic.
func ValueSubject(topic string) string {
	return topic + "-value"
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = si
		return nil
	}
}

func (so serdeOpts) complete() bool {
	return so.subject != "" && so.si != nil
}

func NewSerdeProductCreatedV1(ctx context.Context, opts ...Opt) (Serde, error) {
	return newRecordSerde[ProductCreatedV1](
		ctx, "NewSerdeProductCreatedV1", ProductCreatedSchemaTextV1, opts,
	)
}

func NewSerdeBlogPostPublishedV1(ctx context.Context, opts ...Opt) (Serde, error) {
	return newRecordSerde[BlogPostPublishedV1](
		ctx, "NewSerdeBlogPostPublishedV1", BlogPostPublishedSchemaTextV1, opts,
	)
}

// newRecordSerde parses schemaText, resolves its registry id and binds
// it to the record type T.
func newRecordSerde[T any](
	ctx context.Context, op, schemaText string, opts []Opt,
) (Serde, error) {
	var so serdeOpts
	for _, o := range opts {
		if err := o(&so); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if !so.complete() {
		return nil, fmt.Errorf("%s: %w", op, ErrTooFewOpts)
	}

	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := so.si.DetermineID(ctx, so.subject, schemaText)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var zero T
	s := new(sr.Serde)
	s.Register(
		id,
		zero,
		sr.EncodeFn(func(v any) ([]byte, error) {
			return avro.Marshal(avroSchema, v)
		}),
		sr.DecodeFn(func(data []byte, v any) error {
			return avro.Unmarshal(avroSchema, data, v)
		}),
	)
	return s, nil
}
