package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fadeatelier/fade-backend/pkg/types"
)

// AddressJSON stores a shipping address as a jsonb column.
type AddressJSON struct {
	types.Address
}

func (a *AddressJSON) Scan(src any) error {
	if src == nil {
		*a = AddressJSON{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, &a.Address)
	case string:
		return json.Unmarshal([]byte(v), &a.Address)
	default:
		return fmt.Errorf("AddressJSON: unsupported Scan type %T", src)
	}
}

func (a AddressJSON) Value() (driver.Value, error) {
	return json.Marshal(a.Address)
}
