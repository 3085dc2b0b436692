package mysql

// LAST_INSERT_ID(bank_id) makes the duplicate path report the existing row's
// id through res.LastInsertId().
const upsertBankSQL = `
INSERT INTO banks (bank_name, app_id)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  bank_id = LAST_INSERT_ID(bank_id),
  app_id  = VALUES(app_id)
`

// Bulk insert; dedup_hash carries the (text, bank, date) identity so a
// retried batch never duplicates rows.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (bank_id, dedup_hash, review_text, rating, review_date, source, sentiment_label, sentiment_score, themes)\nVALUES "

const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating          = VALUES(rating),\n" +
	"  source          = VALUES(source),\n" +
	"  sentiment_label = VALUES(sentiment_label),\n" +
	"  sentiment_score = VALUES(sentiment_score),\n" +
	"  themes          = VALUES(themes)\n"

const listBanksSQL = `
SELECT bank_id, bank_name, app_id
FROM banks
ORDER BY bank_id
`

const listReviewsSQL = `
SELECT r.review_text, r.rating, r.review_date, b.bank_name, r.source,
       r.sentiment_label, r.sentiment_score, r.themes
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
WHERE r.bank_id = ?
ORDER BY r.review_date DESC, r.id DESC
LIMIT ?
`

const listReviewsAscSQL = `
SELECT r.review_text, r.rating, r.review_date, b.bank_name, r.source,
       r.sentiment_label, r.sentiment_score, r.themes
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
WHERE r.bank_id = ?
ORDER BY r.review_date ASC, r.id ASC
LIMIT ?
`

const listAllReviewsSQL = `
SELECT r.review_text, r.rating, r.review_date, b.bank_name, r.source,
       r.sentiment_label, r.sentiment_score, r.themes
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
ORDER BY r.id
`
