package eventlens

var (
	VERSION = "dev"
	COMMIT  = "unknown"
)
