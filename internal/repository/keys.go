package repository

// Storage key layout. Every aggregate lives whole under one key; list keys
// are explicit indexes maintained with the same read-then-write discipline
// because the store has no secondary indexes.
const activeBidsKey = "bid:active"

func productKey(id string) string { return "product:" + id }

const productIDsKey = "product:ids"

func bidKey(id string) string           { return "bid:" + id }
func userBidsKey(userID string) string  { return "user:" + userID + ":bids" }
func cartKey(userID string) string      { return "cart:" + userID }
func orderKey(id string) string         { return "order:" + id }
func userOrdersKey(userID string) string { return "user:" + userID + ":orders" }

func userKey(userID string) string      { return "user:" + userID }
func userPrefsKey(userID string) string { return "user:" + userID + ":preferences" }
func userViewsKey(userID string) string { return "user:" + userID + ":views" }

func productViewsKey(productID string) string { return "analytics:views:" + productID }
