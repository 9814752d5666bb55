package mysql

const upsertPropertySQL = `
INSERT INTO properties
  (id, title, address, latitude, longitude, data)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title      = VALUES(title),
  address    = VALUES(address),
  latitude   = VALUES(latitude),
  longitude  = VALUES(longitude),
  data       = VALUES(data),
  updated_at = CURRENT_TIMESTAMP
`

const getPropertySQL = `SELECT data FROM properties WHERE id = ?`

const deletePropertySQL = `DELETE FROM properties WHERE id = ?`

// limit 0 is passed as a large number by the caller.
const listPropertyIDsSQL = `SELECT id FROM properties ORDER BY id LIMIT ?`

const upsertTemplateSQL = `
INSERT INTO templates
  (id, name, data)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  data       = VALUES(data),
  updated_at = CURRENT_TIMESTAMP
`

const listTemplatesSQL = `SELECT data FROM templates ORDER BY name, id`

const getTemplateSQL = `SELECT data FROM templates WHERE id = ?`

const deleteTemplateSQL = `DELETE FROM templates WHERE id = ?`

const upsertSettingsSQL = `
INSERT INTO agency_settings (id, data)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = CURRENT_TIMESTAMP
`

const getSettingsSQL = `SELECT data FROM agency_settings WHERE id = ?`

const insertContactSQL = `
INSERT INTO contacts
  (id, property_id, name, email, phone, message, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Newest first; aligns with idx_contacts_created.
const listContactsSQL = `
SELECT id, property_id, name, email, phone, message, created_at
FROM contacts
ORDER BY created_at DESC, id DESC
LIMIT ?
`
