package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ProductEventsProducer = (*ProductEventsProducer)(nil)
var _ port.BlogEventsProducer = (*BlogEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func newProducer(opPrefix string, opts ...ProducerOpt) (producer, error) {
	const op = "newProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, opPrefix, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producer{}, opErr(err, opPrefix, op)
		}
	}

	return producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

// produce encodes v and sends it keyed by key.
func (p producer) produce(ctx context.Context, key string, v any) error {
	const op = "produce"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	b, err := p.encoder.Encode(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: []byte(key), Value: b}
	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A ProductEventsProducer publishes a record per created product, keyed
// by product id.
type ProductEventsProducer struct {
	producer producer
}

func NewProductEventsProducer(
	opts ...ProducerOpt,
) (ProductEventsProducer, error) {
	p, err := newProducer("ProductEventsProducer", opts...)
	if err != nil {
		return ProductEventsProducer{}, err
	}
	return ProductEventsProducer{p}, nil
}

func (p ProductEventsProducer) Close() {
	p.producer.close()
}

func (p ProductEventsProducer) ProduceProductCreated(
	ctx context.Context, v domain.Product,
) error {
	return p.producer.produce(ctx, v.ID, productToSchemaV1(v))
}

// A BlogEventsProducer publishes a record per published blog post,
// keyed by post id.
type BlogEventsProducer struct {
	producer producer
}

func NewBlogEventsProducer(
	opts ...ProducerOpt,
) (BlogEventsProducer, error) {
	p, err := newProducer("BlogEventsProducer", opts...)
	if err != nil {
		return BlogEventsProducer{}, err
	}
	return BlogEventsProducer{p}, nil
}

func (p BlogEventsProducer) Close() {
	p.producer.close()
}

func (p BlogEventsProducer) ProduceBlogPostPublished(
	ctx context.Context, v domain.BlogPost,
) error {
	return p.producer.produce(ctx, v.ID, blogPostToSchemaV1(v))
}
