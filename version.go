package lexgen

// Version is mixed into cache keys so upgrades invalidate cached output.
const Version = "0.3.0"
