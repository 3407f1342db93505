// Package executor realizes logical agent actions against live web pages
// through ranked fallback strategies.
//
// A single intent like "put this value into that field" has no single
// reliable mechanical realization across heterogeneous pages. Each verb
// (fill, navigate, click) therefore owns a fixed, ordered list of
// independent strategies, ordered from most precise (direct CSS locator)
// to most speculative (guessing the field from label keywords or position).
// Each strategy declares its own applicability by checking which descriptor
// fields it needs; inapplicable strategies are skipped, and a strategy that
// errors or panics is treated the same as one that returned false. The
// pipeline stops at the first strategy that reports success.
//
// After a success, if the descriptor carries a precise locator the written
// value is read back and compared. A mismatched read-back is still reported
// as success: verification is best-effort, not authoritative, because some
// frameworks defer echoing the value. Only when every strategy exhausts
// does the action fail, with an aggregate error naming the attempted count.
package executor
