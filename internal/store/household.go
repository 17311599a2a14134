package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/correcaminos/cuotas/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

// Slugify derives a stable household handle from a login name: lowercase,
// with every non-alphanumeric run replaced by underscores.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.ID, &h.Handle, &h.Name, &h.Email, &h.Role, &h.Roster, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const householdCols = `id, handle, name, email, role, roster, created_at, updated_at`

func (s *HouseholdStore) Create(handle, name, passwordHash, role, roster string) (*model.Household, error) {
	result, err := s.db.Exec(
		`INSERT INTO households (handle, name, password_hash, role, roster) VALUES (?, ?, ?, ?, ?)`,
		Slugify(handle), name, passwordHash, role, roster,
	)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	if err := s.loadMembers(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HouseholdStore) GetByHandle(handle string) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE handle = ?`, Slugify(handle))
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household by handle: %w", err)
	}
	if err := s.loadMembers(h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetPasswordHash returns the stored hash for a handle, or "" if unknown.
func (s *HouseholdStore) GetPasswordHash(handle string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM households WHERE handle = ?`, Slugify(handle)).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// List returns all households with their structured members loaded,
// ordered by name.
func (s *HouseholdStore) List() ([]model.Household, error) {
	rows, err := s.db.Query(`SELECT ` + householdCols + ` FROM households ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.allMembers()
	if err != nil {
		return nil, err
	}
	for i := range households {
		households[i].Members = members[households[i].ID]
	}
	return households, nil
}

func (s *HouseholdStore) Update(id int64, name, email, role, roster string) (*model.Household, error) {
	_, err := s.db.Exec(
		`UPDATE households SET name = ?, email = ?, role = ?, roster = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, email, role, roster, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) SetPassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE households SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

func (s *HouseholdStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM households WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}

// ReplaceMembers swaps a household's structured roster in one transaction,
// preserving the given order.
func (s *HouseholdStore) ReplaceMembers(householdID int64, members []model.MemberRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM members WHERE household_id = ?`, householdID); err != nil {
		return fmt.Errorf("clear members: %w", err)
	}
	for i, m := range members {
		_, err := tx.Exec(
			`INSERT INTO members (household_id, name, category, position) VALUES (?, ?, ?, ?)`,
			householdID, m.Name, m.Category, i,
		)
		if err != nil {
			return fmt.Errorf("insert member %q: %w", m.Name, err)
		}
	}
	return tx.Commit()
}

func (s *HouseholdStore) loadMembers(h *model.Household) error {
	rows, err := s.db.Query(
		`SELECT id, household_id, name, category, position FROM members WHERE household_id = ? ORDER BY position ASC, id ASC`,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.MemberRecord
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.Name, &m.Category, &m.Position); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		h.Members = append(h.Members, m)
	}
	return rows.Err()
}

func (s *HouseholdStore) allMembers() (map[int64][]model.MemberRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, household_id, name, category, position FROM members ORDER BY household_id ASC, position ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all members: %w", err)
	}
	defer rows.Close()

	members := make(map[int64][]model.MemberRecord)
	for rows.Next() {
		var m model.MemberRecord
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.Name, &m.Category, &m.Position); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members[m.HouseholdID] = append(members[m.HouseholdID], m)
	}
	return members, rows.Err()
}
