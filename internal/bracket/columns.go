package bracket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The document fields of a tournament are stored as JSON text columns.

func scanJSON(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r Roster) Value() (driver.Value, error) {
	if r == nil {
		r = Roster{}
	}
	return valueJSON([]Entrant(r))
}

func (r *Roster) Scan(src any) error { return scanJSON(src, (*[]Entrant)(r)) }

func (l TeamList) Value() (driver.Value, error) {
	if l == nil {
		l = TeamList{}
	}
	return valueJSON([]Team(l))
}

func (l *TeamList) Scan(src any) error { return scanJSON(src, (*[]Team)(l)) }

func (r Registrations) Value() (driver.Value, error) {
	if r == nil {
		r = Registrations{}
	}
	return valueJSON([]Registration(r))
}

func (r *Registrations) Scan(src any) error { return scanJSON(src, (*[]Registration)(r)) }

func (l Ledger) Value() (driver.Value, error) {
	if l == nil {
		l = Ledger{}
	}
	return valueJSON([]Matchup(l))
}

func (l *Ledger) Scan(src any) error { return scanJSON(src, (*[]Matchup)(l)) }
