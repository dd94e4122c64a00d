package index

var (
	bPosts    = []byte("posts")        // slug -> post json
	bIDs      = []byte("ids")          // id(8) -> slug
	bIdxOrder = []byte("idx_order")    // pos + slug
	bIdxCat   = []byte("idx_category") // category -> sub-bucket of invDay + slug
	bMeta     = []byte("meta")

	kFingerprint = []byte("fingerprint")
)
