package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/regenai/regen-agent/internal/domain"
)

// ThreadStore is a durable implementation of domain.ConversationMemory on
// Firestore, for deployments that want conversations to survive restarts.
// Exchanges live in a per-thread subcollection ordered by sequence number;
// the per-pair transaction keeps the same bound invariant as the in-memory
// store.
type ThreadStore struct {
	client   *firestore.Client
	maxPairs int
}

func NewThreadStore(ctx context.Context, projectID string, maxPairs int) (*ThreadStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore thread store")
	}
	if maxPairs <= 0 {
		maxPairs = 3
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &ThreadStore{client: client, maxPairs: maxPairs}, nil
}

func (s *ThreadStore) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *ThreadStore) threadsCol() *firestore.CollectionRef {
	return s.client.Collection("threads")
}

func (s *ThreadStore) threadDoc(id domain.ThreadID) *firestore.DocumentRef {
	return s.threadsCol().Doc(string(id))
}

func (s *ThreadStore) exchangesCol(id domain.ThreadID) *firestore.CollectionRef {
	return s.threadDoc(id).Collection("exchanges")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type threadDoc struct {
	NextSeq   int64     `firestore:"next_seq"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type exchangeDoc struct {
	Seq       int64     `firestore:"seq"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// ConversationMemory implementation
// ─────────────────────────────────────────

func (s *ThreadStore) NewThreadID() domain.ThreadID {
	return domain.ThreadID(uuid.NewString())
}

func (s *ThreadStore) History(ctx context.Context, id domain.ThreadID) ([]domain.Exchange, error) {
	iter := s.exchangesCol(id).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := []domain.Exchange{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			if status.Code(err) == codes.NotFound {
				return []domain.Exchange{}, nil
			}
			return nil, fmt.Errorf("firestore History: %w", err)
		}

		var doc exchangeDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode exchangeDoc: %w", err)
		}
		out = append(out, domain.Exchange{
			Role:    domain.Role(doc.Role),
			Content: doc.Content,
		})
	}
	return out, nil
}

func (s *ThreadStore) AppendTurn(ctx context.Context, id domain.ThreadID, user, assistant domain.Exchange) error {
	limit := 2 * s.maxPairs

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var nextSeq int64
		snap, err := tx.Get(s.threadDoc(id))
		switch {
		case err == nil:
			var td threadDoc
			if err := snap.DataTo(&td); err != nil {
				return fmt.Errorf("decode threadDoc: %w", err)
			}
			nextSeq = td.NextSeq
		case status.Code(err) == codes.NotFound:
			nextSeq = 0
		default:
			return err
		}

		// Collect current exchanges inside the transaction so the eviction
		// decision and the append commit together.
		q := s.exchangesCol(id).OrderBy("seq", firestore.Asc)
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		total := len(docs) + 2
		for i := 0; total > limit && i < len(docs); i++ {
			if err := tx.Delete(docs[i].Ref); err != nil {
				return err
			}
			total--
		}

		for _, ex := range []domain.Exchange{user, assistant} {
			ref := s.exchangesCol(id).NewDoc()
			if err := tx.Set(ref, exchangeDoc{
				Seq:       nextSeq,
				Role:      string(ex.Role),
				Content:   ex.Content,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			nextSeq++
		}

		return tx.Set(s.threadDoc(id), threadDoc{
			NextSeq:   nextSeq,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("firestore AppendTurn: %w", err)
	}
	return nil
}
