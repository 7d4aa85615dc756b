package validators

import "fmt"

// allowedUpdates is the fixed set of field names a profile update may touch
var allowedUpdates = map[string]struct{}{
	"first_name": {},
	"last_name":  {},
	"email":      {},
	"password":   {},
	"age":        {},
}

// UpdateFieldsValidator rejects an update wholesale if it names any field
// outside the allow-list. No partial application: either every key is
// allowed or nothing gets written
func UpdateFieldsValidator(updates map[string]any) error {
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	for field := range updates {
		if _, ok := allowedUpdates[field]; !ok {
			return fmt.Errorf("field %q can't be updated", field)
		}
	}

	return nil
}
