package mysql

const upsertCitySQL = `
INSERT INTO cities (id, city_name)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  city_name  = VALUES(city_name),
  updated_at = CURRENT_TIMESTAMP
`

const upsertHotelSQL = `
INSERT INTO hotels
  (id, city_id, name, rating, stars)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  city_id    = VALUES(city_id),
  name       = VALUES(name),
  rating     = VALUES(rating),
  stars      = VALUES(stars),
  updated_at = CURRENT_TIMESTAMP
`

const upsertAdvertiserSQL = `
INSERT INTO advertisers (id, advertiser_name)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  advertiser_name = VALUES(advertiser_name),
  updated_at      = CURRENT_TIMESTAMP
`

// Links are a pure association; re-inserting one is a no-op.
const linkAdvertiserHotelSQL = `
INSERT IGNORE INTO hotel_advertiser (advertiser_id, hotel_id)
VALUES (?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listCitiesSQL = `SELECT id, city_name FROM cities ORDER BY id`

const listHotelsSQL = `
SELECT id, city_id, name, rating, stars
FROM hotels
ORDER BY id
`

const listAdvertisersSQL = `SELECT id, advertiser_name FROM advertisers ORDER BY id`

const listCoverageSQL = `
SELECT advertiser_id, hotel_id
FROM hotel_advertiser
ORDER BY advertiser_id, hotel_id
`
