package rates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudcart/internal/errors"
)

func TestDefaultTableLoads(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "USD", table.Currency)
	assert.NotEmpty(t, table.EC2.InstanceTypes)
	assert.NotEmpty(t, table.S3.StorageClasses)
	assert.NotEmpty(t, table.RDS.InstanceTypes)
	assert.NotEmpty(t, table.Regions)

	inst, ok := table.EC2Instance("t3.large")
	require.True(t, ok)
	assert.Equal(t, 2, inst.VCPU)
	assert.InDelta(t, 8, inst.Memory, 0)

	tiers := table.DataTransfer.EgressTiers
	require.NotEmpty(t, tiers)
	assert.Nil(t, tiers[len(tiers)-1].UpToGB, "last egress tier must be unbounded")
}

func TestSnapshotIsStable(t *testing.T) {
	a := MustDefault()
	b := MustDefault()

	assert.True(t, strings.HasPrefix(a.Snapshot(), "rates-"))
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestRegionMultiplierDefaultsToOne(t *testing.T) {
	table := MustDefault()

	assert.InDelta(t, 1.0, table.RegionMultiplier("mars-central-1"), 0)
	assert.InDelta(t, 1.1, table.RegionMultiplier("eu-west-1"), 1e-12)
}

func TestOSMultiplierDefaultsToOne(t *testing.T) {
	table := MustDefault()

	assert.InDelta(t, 1.0, table.OSMultiplier("plan9"), 0)
	assert.Greater(t, table.OSMultiplier("windows"), 1.0)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalTable), 0o600))

	table, err := Load(path)
	require.NoError(t, err)

	_, ok := table.EC2Instance("t3.micro")
	assert.True(t, ok)
	assert.NotEqual(t, MustDefault().Snapshot(), table.Snapshot())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, MustDefault().Snapshot(), table.Snapshot())
}

func TestParseRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
	}{
		{
			name:    "unbounded tier not last",
			replace: [2]string{`{ "upToGB": 10, "perGB": 0.09 }`, `{ "upToGB": null, "perGB": 0.09 }`},
		},
		{
			name:    "descending tiers",
			replace: [2]string{`{ "upToGB": 10, "perGB": 0.09 }`, `{ "upToGB": 0, "perGB": 0.09 }`},
		},
		{
			name:    "zero spot discount",
			replace: [2]string{`"spotDiscount": 0.3`, `"spotDiscount": 0`},
		},
		{
			name:    "redundancy below one",
			replace: [2]string{`"redundancyMultiplier": 1.5`, `"redundancyMultiplier": 0.5`},
		},
		{
			name:    "unknown field",
			replace: [2]string{`"currency": "USD",`, `"currency": "USD", "surprise": true,`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(minimalTable, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, minimalTable, data, "test fixture replacement did not apply")

			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestEgressTierLimit(t *testing.T) {
	ten := 10.0
	assert.InDelta(t, 10, EgressTier{UpToGB: &ten}.Limit(), 0)
	assert.True(t, EgressTier{}.Limit() > 1e300)
}

const minimalTable = `{
  "currency": "USD",
  "ec2": {
    "instanceTypes": { "t3.micro": { "hourlyRate": 0.01, "vcpu": 2, "memory": 1 } },
    "osMultiplier": { "linux": 1 },
    "spotDiscount": 0.3
  },
  "s3": { "storageClasses": { "standard": { "perGBMonth": 0.02, "getRequest": 0.0000004 } } },
  "rds": {
    "instanceTypes": { "db.t3.micro": { "hourlyRate": 0.02, "vcpu": 2, "memory": 1 } },
    "multiAZMultiplier": 2,
    "storagePerGB": 0.1
  },
  "regions": { "us-east-1": { "multiplier": 1 } },
  "dataTransfer": {
    "egressTiers": [
      { "upToGB": 10, "perGB": 0.09 },
      { "upToGB": null, "perGB": 0.05 }
    ],
    "natGatewayHourly": 0.045,
    "natGatewayPerGB": 0.045,
    "crossRegionPerGB": 0.02
  },
  "productionOverhead": {
    "redundancyMultiplier": 1.5,
    "backupCostPercentage": 0.1,
    "monitoringCostPercentage": 0.05,
    "loggingCostPercentage": 0.03
  }
}`

func TestDefaultJSONIsACopy(t *testing.T) {
	a := DefaultJSON()
	require.NotEmpty(t, a)
	a[0] = 'x'

	table, err := Parse(DefaultJSON())
	require.NoError(t, err)
	assert.Equal(t, MustDefault().Snapshot(), table.Snapshot())
}
