package database

import "strings"

// The column names follow the field survey export. "key" is reserved in
// MySQL, so statements use a {key} placeholder that each dialect quotes.

func GetHouseholdsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS households (
			{key} VARCHAR(255) PRIMARY KEY,
			pro_name VARCHAR(255),
			dist_name VARCHAR(255),
			llg_name VARCHAR(255),
			ward_name VARCHAR(255),
			location_name VARCHAR(255),
			location_number INT,
			dwelling_number INT,
			sector INT,
			submittername VARCHAR(255),
			four_3_1 VARCHAR(255),
			four_5_1 VARCHAR(255),
			four_1_1 INT,
			hh_gps_latitude DOUBLE PRECISION,
			hh_gps_longitude DOUBLE PRECISION,
			hh_gps_altitude DOUBLE PRECISION,
			hh_gps_accuracy DOUBLE PRECISION,
			water_source_gps_latitude DOUBLE PRECISION,
			water_source_gps_longitude DOUBLE PRECISION,
			water_source_gps_altitude DOUBLE PRECISION,
			water_source_gps_accuracy DOUBLE PRECISION,
			toilet_gps_latitude DOUBLE PRECISION,
			toilet_gps_longitude DOUBLE PRECISION,
			toilet_gps_altitude DOUBLE PRECISION,
			toilet_gps_accuracy DOUBLE PRECISION,
			respondent_name VARCHAR(255),
			respondent_relationship VARCHAR(255),
			total_members INT,
			agree_yes INT,
			death_consent INT,
			deaths_count INT,
			interview_date_time_1 TEXT,
			submissiondate TIMESTAMP NULL
		);
	`
}

func GetIndividualsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS individuals (
			{key} VARCHAR(255) PRIMARY KEY,
			parent_key VARCHAR(255) NOT NULL,
			indiv_fname VARCHAR(255),
			indiv_lname VARCHAR(255),
			sex VARCHAR(16),
			indiv_line_num INT,
			relo_to_hh INT,
			age_category INT,
			calculated_age INT,
			marital_status INT
		);
	`
}

// householdColumns is the insert order used by Seed; it matches householdValues.
var householdColumns = []string{
	"{key}", "pro_name", "dist_name", "llg_name", "ward_name", "location_name",
	"location_number", "dwelling_number", "sector", "submittername", "four_3_1", "four_5_1", "four_1_1",
	"hh_gps_latitude", "hh_gps_longitude", "hh_gps_altitude", "hh_gps_accuracy",
	"water_source_gps_latitude", "water_source_gps_longitude", "water_source_gps_altitude", "water_source_gps_accuracy",
	"toilet_gps_latitude", "toilet_gps_longitude", "toilet_gps_altitude", "toilet_gps_accuracy",
	"respondent_name", "respondent_relationship", "total_members",
	"agree_yes", "death_consent", "deaths_count",
	"interview_date_time_1", "submissiondate",
}

var individualColumns = []string{
	"{key}", "parent_key", "indiv_fname", "indiv_lname", "sex",
	"indiv_line_num", "relo_to_hh", "age_category", "calculated_age", "marital_status",
}

func GetHouseholdsQuery() string {
	return `
		SELECT {key}, COALESCE(pro_name, ''), COALESCE(dist_name, ''), COALESCE(llg_name, ''),
			COALESCE(ward_name, ''), COALESCE(location_name, ''),
			location_number, dwelling_number, sector,
			COALESCE(submittername, ''), COALESCE(four_3_1, ''), COALESCE(four_5_1, ''), four_1_1,
			hh_gps_latitude, hh_gps_longitude, hh_gps_altitude, hh_gps_accuracy,
			water_source_gps_latitude, water_source_gps_longitude, water_source_gps_altitude, water_source_gps_accuracy,
			toilet_gps_latitude, toilet_gps_longitude, toilet_gps_altitude, toilet_gps_accuracy,
			respondent_name, respondent_relationship, total_members,
			agree_yes IS NOT NULL, death_consent IS NOT NULL, deaths_count,
			COALESCE(interview_date_time_1, ''), submissiondate
		FROM households
	`
}

func GetIndividualsQuery() string {
	return `
		SELECT {key}, parent_key, indiv_fname, indiv_lname, sex,
			indiv_line_num, relo_to_hh, age_category, calculated_age, marital_status
		FROM individuals
	`
}

// dialect substitutes the quoted key column into a statement.
func dialect(stmt, quotedKey string) string {
	return strings.ReplaceAll(stmt, "{key}", quotedKey)
}

/*
MongoDB document structure:

households: {
  _id: <string>,
  pro_name: <string>,
  dist_name, llg_name, ward_name, location_name: <string>,
  location_number, dwelling_number, sector, four_1_1: <int|null>,
  submittername, four_3_1, four_5_1: <string>,
  hh_gps, water_source_gps, toilet_gps: {
    latitude, longitude, altitude, accuracy: <double|null>
  },
  respondent_name, respondent_relationship: <string|null>,
  total_members, deaths_count: <int|null>,
  agree_yes, death_consent: <bool>,
  interview_date_time_1: <string>,
  submissiondate: <date|null>
}

individuals: {
  _id: <string>,
  parent_key: <string>,
  indiv_fname, indiv_lname, sex: <string|null>,
  indiv_line_num, relo_to_hh, age_category, calculated_age, marital_status: <int|null>
}

*/
