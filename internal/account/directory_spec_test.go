package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// userRow is a fake pgx.Row holding one usuarios record.
type userRow struct {
	values []any
	err    error
}

func (r userRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		}
	}
	return nil
}

// fakeDB answers every query with row and records the last arguments.
type fakeDB struct {
	row      userRow
	lastArgs []any
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.lastArgs = args
	return f.row
}

var _ = Describe("Directory", func() {
	var (
		db  *fakeDB
		dir *Directory
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("s3creta"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		db = &fakeDB{row: userRow{values: []any{int64(12), "Marta Gómez", "marta@coop.test", " Comercial ", string(hash), true}}}
		dir = NewDirectory(db)
	})

	It("returns the identity for valid credentials", func() {
		id, err := dir.Authenticate(context.Background(), "  Marta@coop.test ", "s3creta")
		Expect(err).NotTo(HaveOccurred())
		Expect(id.ID).To(Equal("12"))
		Expect(id.Name).To(Equal("Marta Gómez"))
		Expect(id.Email).To(Equal("marta@coop.test"))
		Expect(id.Role).To(Equal("comercial"))
		Expect(db.lastArgs).To(Equal([]any{"Marta@coop.test"}))
	})

	It("rejects a wrong password", func() {
		_, err := dir.Authenticate(context.Background(), "marta@coop.test", "otra")
		Expect(err).To(MatchError(ErrInvalidCredentials))
	})

	It("rejects an unknown email", func() {
		db.row = userRow{err: pgx.ErrNoRows}
		_, err := dir.Authenticate(context.Background(), "nadie@coop.test", "s3creta")
		Expect(err).To(MatchError(ErrInvalidCredentials))
	})

	It("rejects an inactive user", func() {
		db.row.values[5] = false
		_, err := dir.Authenticate(context.Background(), "marta@coop.test", "s3creta")
		Expect(err).To(MatchError(ErrInvalidCredentials))
	})

	It("rejects blank input without querying", func() {
		_, err := dir.Authenticate(context.Background(), " ", "x")
		Expect(err).To(MatchError(ErrInvalidCredentials))
		_, err = dir.Authenticate(context.Background(), "marta@coop.test", "")
		Expect(err).To(MatchError(ErrInvalidCredentials))
		Expect(db.lastArgs).To(BeNil())
	})

	It("wraps database failures", func() {
		db.row = userRow{err: errors.New("conn closed")}
		_, err := dir.Authenticate(context.Background(), "marta@coop.test", "s3creta")
		Expect(err).To(MatchError(ContainSubstring("conn closed")))
		Expect(errors.Is(err, ErrInvalidCredentials)).To(BeFalse())
	})

	It("reports a corrupt hash as an error", func() {
		db.row.values[4] = "not-a-bcrypt-hash"
		_, err := dir.Authenticate(context.Background(), "marta@coop.test", "s3creta")
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, ErrInvalidCredentials)).To(BeFalse())
	})
})
