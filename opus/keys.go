package opus

// Comment keys, lowercase as they appear in Metadata.Comments.
//
// https://www.xiph.org/vorbis/doc/v-comment.html
const (
	KeyTitle        = "title"
	KeyVersion      = "version"
	KeyAlbum        = "album"
	KeyTrackNumber  = "tracknumber"
	KeyArtist       = "artist"
	KeyPerformer    = "performer"
	KeyCopyright    = "copyright"
	KeyLicense      = "license"
	KeyOrganization = "organization"
	KeyDescription  = "description"
	KeyGenre        = "genre"
	KeyDate         = "date"
	KeyLocation     = "location"
	KeyContact      = "contact"
	KeyISRC         = "isrc"

	KeyMetadataBlockPicture = "metadata_block_picture"
)

// Unofficial but widespread keys.
//
// https://www.jthink.net/jaudiotagger/tagmapping.html
// https://docs.mp3tag.de/mapping-table/
const (
	KeyAlbumArtist = "albumartist"
	KeyDiscNumber  = "discnumber"
)

//nolint:gochecknoglobals
var (
	CommentKeys = []string{KeyDescription, "comment"}
	LyricsKeys  = []string{"lyrics", "unsyncedlyrics"}
)
