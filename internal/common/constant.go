package common

// Keys of the local metadata table that hold the persisted session.
const (
	MetadataSessionToken = "session_token"
	MetadataSessionUser  = "session_user"
)

// RootFolderID is the legacy identifier of the root scope. The root is
// virtual (a NULL parent), so no record ever carries this id; it is kept
// only so that a delete request for it is refused.
const RootFolderID = "root"
