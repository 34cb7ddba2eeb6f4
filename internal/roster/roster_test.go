package roster

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRosterLoads(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	require.Equal(t, 20, r.Len())

	projects := r.Projects()
	assert.Equal(t, "ELEC DIRECT", projects[0].Client)
	assert.Equal(t, 14.0, projects[0].TotalDaysSold)
	assert.Len(t, projects[0].Activities, 8)
	assert.Equal(t, "NEYRAT IMMOBILIER", projects[19].Client)

	var ecommerce int
	for _, p := range projects {
		if p.ClientType == ClientEcommerce {
			ecommerce++
		}
	}
	assert.Equal(t, 7, ecommerce)
}

func TestDefaultRosterKeepsHoursAnnotation(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	var found bool
	for _, p := range r.Projects() {
		if p.Client != "SCENT AND MORE" {
			continue
		}
		for _, a := range p.Activities {
			if a.Pole == PoleSocial {
				require.NotNil(t, a.Hours)
				assert.Equal(t, 2.0, *a.Hours)
				assert.Equal(t, 0.2, a.Days)
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestProjectsReturnsCopy(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	first := r.Projects()
	first[0].Client = "MUTATED"
	first[0].Activities[0].Days = 99

	again := r.Projects()
	assert.Equal(t, "ELEC DIRECT", again[0].Client)
	assert.Equal(t, 6.0, again[0].Activities[0].Days)
}

func TestLoadRejectsMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"unknown pole": `{"projects":[{"client":"A","totalDaysSold":1,"totalAdsCount":1,"priority":"HIGH","clientType":"ecommerce",
			"activities":[{"name":"x","days":1,"type":"SOCIAL","pole":"MARKETING"}]}]}`,
		"negative days": `{"projects":[{"client":"A","totalDaysSold":1,"totalAdsCount":1,"priority":"HIGH","clientType":"ecommerce",
			"activities":[{"name":"x","days":-1,"type":"SOCIAL","pole":"SOCIAL"}]}]}`,
		"unknown client type": `{"projects":[{"client":"A","totalDaysSold":1,"totalAdsCount":1,"priority":"HIGH","clientType":"retail","activities":[]}]}`,
		"missing client":      `{"projects":[{"totalDaysSold":1,"totalAdsCount":1,"priority":"LOW","clientType":"ecommerce","activities":[]}]}`,
		"unknown field":       `{"projects":[{"client":"A","pole":"ACQUISITION","totalDaysSold":1,"totalAdsCount":1,"priority":"LOW","clientType":"ecommerce","activities":[]}]}`,
		"not json":            `projects`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRoster)
		})
	}
}

func TestLoadErrorNamesField(t *testing.T) {
	body := `{"projects":[{"client":"A","totalDaysSold":1,"totalAdsCount":1,"priority":"HIGH","clientType":"ecommerce",
		"activities":[{"name":"x","days":1,"type":"SOCIAL","pole":"MARKETING"}]}]}`
	_, err := Load(strings.NewReader(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Projects[0].Activities[0].Pole")
}

func TestNewValidatesAndCopies(t *testing.T) {
	projects := []Project{{
		Client: "A", TotalDaysSold: 1, Priority: PriorityLow, ClientType: ClientNonEcommerce,
		Activities: []Activity{{Name: "x", Days: 1, Type: TypeSocial, Pole: PoleSocial}},
	}}
	r, err := New(projects)
	require.NoError(t, err)
	projects[0].Activities[0].Days = 5
	assert.Equal(t, 1.0, r.Projects()[0].Activities[0].Days)

	_, err = New([]Project{{Client: "B", Priority: "URGENT", ClientType: ClientEcommerce}})
	assert.ErrorIs(t, err, ErrInvalidRoster)
}

func TestRosterLoadHonoursContext(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"SMELLINGOOD (interne)":      "SMELLINGOOD",
		"JEAN MARC JOUBERT OFFICIEL": "JEAN MARC JOUBERT",
		"ACME - SEA":                 "ACME",
		"ACME - shopping":            "ACME",
		"JEAN MARC JOUBERT SHOPPING": "JEAN MARC JOUBERT SHOPPING",
		"ELEC DIRECT":                "ELEC DIRECT",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestPoleValid(t *testing.T) {
	for _, p := range Poles() {
		assert.True(t, p.Valid())
	}
	assert.False(t, Pole("ACQUISITION").Valid())
}
