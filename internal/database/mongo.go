package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hdss-monitor/internal/survey"
)

type MongoDriver struct {
	Database string
	client   *mongo.Client
}

type householdDoc struct {
	Key                    string     `bson:"_id"`
	Site                   string     `bson:"pro_name"`
	District               string     `bson:"dist_name"`
	LLG                    string     `bson:"llg_name"`
	Ward                   string     `bson:"ward_name"`
	Village                string     `bson:"location_name"`
	LocationNumber         *int       `bson:"location_number"`
	DwellingNumber         *int       `bson:"dwelling_number"`
	Sector                 *int       `bson:"sector"`
	Submitter              string     `bson:"submittername"`
	Collector              string     `bson:"four_3_1"`
	QualityOfficer         string     `bson:"four_5_1"`
	Outcome                *int       `bson:"four_1_1"`
	HouseholdGPS           survey.GPS `bson:"hh_gps"`
	WaterGPS               survey.GPS `bson:"water_source_gps"`
	ToiletGPS              survey.GPS `bson:"toilet_gps"`
	RespondentName         *string    `bson:"respondent_name"`
	RespondentRelationship *string    `bson:"respondent_relationship"`
	TotalMembers           *int       `bson:"total_members"`
	Consent                bool       `bson:"agree_yes"`
	DeathConsent           bool       `bson:"death_consent"`
	Deaths                 *int       `bson:"deaths_count"`
	InterviewedAt          string     `bson:"interview_date_time_1"`
	SubmittedAt            *time.Time `bson:"submissiondate"`
}

type individualDoc struct {
	Key           string  `bson:"_id"`
	ParentKey     string  `bson:"parent_key"`
	FirstName     *string `bson:"indiv_fname"`
	LastName      *string `bson:"indiv_lname"`
	Sex           *string `bson:"sex"`
	LineNumber    *int    `bson:"indiv_line_num"`
	Relationship  *int    `bson:"relo_to_hh"`
	AgeCategory   *int    `bson:"age_category"`
	Age           *int    `bson:"calculated_age"`
	MaritalStatus *int    `bson:"marital_status"`
}

// household converts directly since the documents mirror the survey records field for field.
func (d householdDoc) household() survey.Household {
	return survey.Household(d)
}

func (d individualDoc) individual() survey.Individual {
	return survey.Individual(d)
}

func (md *MongoDriver) Connect(dsn string) error {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(dsn))
	if err != nil {
		return err
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}
	md.client = client
	return nil
}

func (md *MongoDriver) Close() error {
	return md.client.Disconnect(context.Background())
}

func (md *MongoDriver) collection(name string) *mongo.Collection {
	return md.client.Database(md.Database).Collection(name)
}

// Setup indexes the individuals by parent key. Collections are created implicitly.
func (md *MongoDriver) Setup(ctx context.Context) error {
	_, err := md.collection("individuals").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent_key", Value: 1}},
	})
	return err
}

func (md *MongoDriver) Reset(ctx context.Context) error {
	if err := md.collection("individuals").Drop(ctx); err != nil {
		return err
	}
	return md.collection("households").Drop(ctx)
}

func (md *MongoDriver) Load(ctx context.Context) (*survey.Snapshot, error) {
	cursor, err := md.collection("households").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var households []householdDoc
	if err := cursor.All(ctx, &households); err != nil {
		return nil, err
	}

	cursor, err = md.collection("individuals").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var individuals []individualDoc
	if err := cursor.All(ctx, &individuals); err != nil {
		return nil, err
	}

	snap := &survey.Snapshot{
		Households:  make([]survey.Household, len(households)),
		Individuals: make([]survey.Individual, len(individuals)),
	}
	for i, d := range households {
		snap.Households[i] = d.household()
	}
	for i, d := range individuals {
		snap.Individuals[i] = d.individual()
	}
	return snap, nil
}

func (md *MongoDriver) Seed(ctx context.Context, snap *survey.Snapshot) error {
	if len(snap.Households) > 0 {
		docs := make([]interface{}, len(snap.Households))
		for i := range snap.Households {
			docs[i] = householdDoc(snap.Households[i])
		}
		if _, err := md.collection("households").InsertMany(ctx, docs); err != nil {
			return err
		}
	}

	if len(snap.Individuals) > 0 {
		docs := make([]interface{}, len(snap.Individuals))
		for i := range snap.Individuals {
			docs[i] = individualDoc(snap.Individuals[i])
		}
		if _, err := md.collection("individuals").InsertMany(ctx, docs); err != nil {
			return err
		}
	}
	return nil
}
