package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// the scanners can only read DATETIME columns when the driver parses
// them, so time parsing must be on unless explicitly disabled
func TestDataSourceNameParseTime(t *testing.T) {
	envs := map[string]string{
		"DATABASE_HOST":     "localhost",
		"DATABASE_PORT":     "3306",
		"DATABASE_NAME":     "employee_manager",
		"DATABASE_USER":     "mysql",
		"DATABASE_PASSWORD": "mysql",
	}

	//parse time defaults to on
	s := &mySql{}
	assert.Nil(t, s.Configure(envs))
	assert.Contains(t, s.dataSourceName(), "parseTime=true")

	//and can be explicitly disabled
	envs["DATABASE_PARSE_TIME"] = "false"
	assert.Nil(t, s.Configure(envs))
	assert.Contains(t, s.dataSourceName(), "parseTime=false")
}
