package stream

import (
	"encoding/binary"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
)

const (
	termsBucketName  = "stream"
	ledgerBucketName = "streamdata"

	payerIndex = "payer"
	payeeIndex = "payee"

	// currentSchema is declared by all models written by this version.
	currentSchema = 1
)

// Registry persists streams. Terms and ledger are kept in two buckets under
// the same key, the stream id encoded as 8 bytes big endian.
type Registry struct {
	terms  orm.Bucket
	ledger orm.Bucket
	ids    orm.Sequence
}

// NewRegistry returns a registry with payer and payee indexes over the
// stream terms.
func NewRegistry() Registry {
	terms := orm.NewBucket(termsBucketName, orm.NewSimpleObj(nil, &Stream{})).
		WithIndex(payerIndex, payerIndexer, false).
		WithIndex(payeeIndex, payeeIndexer, false)
	return Registry{
		terms:  terms,
		ledger: orm.NewBucket(ledgerBucketName, orm.NewSimpleObj(nil, &StreamData{})),
		ids:    terms.Sequence(orm.SeqID),
	}
}

// Register exposes the terms as "/streams", the indexes as "/streams/payer"
// and "/streams/payee", and the ledger as "/streamdata".
func (r Registry) Register(qr flow.QueryRouter) {
	r.terms.Register("streams", qr)
	r.ledger.Register("streamdata", qr)
}

// Create stores the terms of a new stream together with an empty ledger and
// returns the id assigned to it. Ids are allocated sequentially from zero.
func (r Registry) Create(db flow.KVStore, s *Stream) (uint64, error) {
	key, err := r.ids.NextVal(db)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	if err := r.terms.Save(db, orm.NewSimpleObj(key, s)); err != nil {
		return 0, errors.Wrap(err, "save terms")
	}
	ledger := &StreamData{Metadata: &flow.Metadata{Schema: currentSchema}}
	if err := r.ledger.Save(db, orm.NewSimpleObj(key, ledger)); err != nil {
		return 0, errors.Wrap(err, "save ledger")
	}
	return binary.BigEndian.Uint64(key), nil
}

// NextID returns the id that the next created stream is going to use.
func (r Registry) NextID(db flow.ReadOnlyKVStore) (uint64, error) {
	n, err := r.ids.Current(db)
	return uint64(n), err
}

// Get returns the terms and the ledger of a stream. ErrStreamNotExist is
// returned for an unknown id.
func (r Registry) Get(db flow.ReadOnlyKVStore, id uint64) (*Stream, *StreamData, error) {
	key := idKey(id)
	obj, err := r.terms.Get(db, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load terms")
	}
	if obj == nil {
		return nil, nil, errors.Wrapf(ErrStreamNotExist, "id %d", id)
	}
	ledger, err := r.ledger.Get(db, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load ledger")
	}
	if ledger == nil {
		return nil, nil, errors.Wrapf(errors.ErrState, "stream %d has no ledger", id)
	}
	return obj.Value().(*Stream), ledger.Value().(*StreamData), nil
}

// UpdateWithdrawn records the cumulative withdrawn amount of a stream.
func (r Registry) UpdateWithdrawn(db flow.KVStore, id uint64, total int64) error {
	s, d, err := r.Get(db, id)
	if err != nil {
		return err
	}
	if total < d.Withdrawn || total > s.Amount {
		return errors.Wrapf(errors.ErrAmount, "withdrawn total %d out of range [%d, %d]", total, d.Withdrawn, s.Amount)
	}
	d.Withdrawn = total
	return r.saveLedger(db, id, d)
}

// MarkCancelled flags a stream as cancelled and records the refund. The
// withdrawn amount is left untouched.
func (r Registry) MarkCancelled(db flow.KVStore, id uint64, refunded int64, at flow.UnixTime) error {
	s, d, err := r.Get(db, id)
	if err != nil {
		return err
	}
	if d.Cancelled {
		return errors.Wrapf(ErrStreamCancelled, "id %d", id)
	}
	if d.Withdrawn+refunded != s.Amount {
		return errors.Wrapf(errors.ErrAmount, "refund %d does not settle stream %d", refunded, id)
	}
	d.Cancelled = true
	d.Refunded = refunded
	d.CancelledAt = at
	return r.saveLedger(db, id, d)
}

func (r Registry) saveLedger(db flow.KVStore, id uint64, d *StreamData) error {
	if err := r.ledger.Save(db, orm.NewSimpleObj(idKey(id), d)); err != nil {
		return errors.Wrap(err, "save ledger")
	}
	return nil
}

// ByPayer returns the ids of all streams paid by the given address.
func (r Registry) ByPayer(db flow.ReadOnlyKVStore, addr flow.Address) ([]uint64, error) {
	return r.byIndex(db, payerIndex, addr)
}

// ByPayee returns the ids of all streams paying to the given address.
func (r Registry) ByPayee(db flow.ReadOnlyKVStore, addr flow.Address) ([]uint64, error) {
	return r.byIndex(db, payeeIndex, addr)
}

func (r Registry) byIndex(db flow.ReadOnlyKVStore, index string, addr flow.Address) ([]uint64, error) {
	objs, err := r.terms.GetIndexed(db, index, addr)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(objs))
	for _, obj := range objs {
		ids = append(ids, binary.BigEndian.Uint64(obj.Key()))
	}
	return ids, nil
}

func payerIndexer(obj orm.Object) ([]byte, error) {
	s, ok := obj.Value().(*Stream)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return s.From, nil
}

func payeeIndexer(obj orm.Object) ([]byte, error) {
	s, ok := obj.Value().(*Stream)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return s.To, nil
}

// idKey encodes a stream id the same way the id sequence does.
func idKey(id uint64) []byte {
	return orm.EncodeSequence(int64(id))
}

// DecodeID reads a stream id as returned by the create instruction.
func DecodeID(raw []byte) (uint64, error) {
	if err := orm.ValidateSequence(raw); err != nil {
		return 0, errors.Wrap(err, "stream id")
	}
	return uint64(orm.DecodeSequence(raw)), nil
}
