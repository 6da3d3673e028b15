package dataframe

// Store is the ordered transaction table owned by a single DataFrame.
// It is only ever replaced wholesale.
type Store struct {
	rows []Transaction
}

func (s *Store) replace(rows []Transaction) {
	s.rows = rows
}

// Len returns the number of stored transactions.
func (s *Store) Len() int { return len(s.rows) }

// Rows returns a copy of the stored transactions.
func (s *Store) Rows() []Transaction {
	out := make([]Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Store) each(fn func(Transaction)) {
	for _, t := range s.rows {
		fn(t)
	}
}
