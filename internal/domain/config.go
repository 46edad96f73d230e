package domain

// KeyPrefix is the default storage key prefix.
const KeyPrefix = "cardex:"
