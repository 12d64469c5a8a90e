package compile

import "fmt"

// MissingStorageFileError reports a storage sub-table referenced by an asset
// column that does not exist on disk. It is fatal only for the owning asset;
// sibling assets proceed.
type MissingStorageFileError struct {
	Asset string
	File  string
}

func (e *MissingStorageFileError) Error() string {
	return fmt.Sprintf("storage file %s.csv referenced by asset %q is missing", e.File, e.Asset)
}

// KeyCollisionError reports a storage sub-record key that already exists in
// the parent asset record. The policy is reject, never overwrite: the asset
// is dropped loudly instead of silently losing one of the two values.
type KeyCollisionError struct {
	Asset string
	Key   string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("storage asset %q already has a parameter %q; refusing to overwrite it with the sub-table record", e.Asset, e.Key)
}
