package build

import (
	"time"

	"github.com/sofmeright/crossfreight/src/output"
)

// JUnitReport converts batch results into a JUnit document with one test
// case per target.
func JUnitReport(project string, results []Result, elapsed time.Duration) output.JUnitTestSuites {
	suite := output.JUnitTestSuite{
		Name:  "build",
		Tests: len(results),
		Time:  output.Seconds(elapsed),
	}
	for _, r := range results {
		tc := output.JUnitTestCase{
			Name:      r.Target.FriendlyName,
			Classname: "crossfreight.build." + r.Target.Triple,
			Time:      output.Seconds(r.Duration),
		}
		if !r.Succeeded {
			suite.Failures++
			tc.Failure = &output.JUnitFailure{
				Message: "build failed for " + r.Target.Triple,
				Type:    "BuildFailure",
				Body:    r.Diagnostic,
			}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	return output.JUnitTestSuites{
		Name:     project,
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Time:     suite.Time,
		Suites:   []output.JUnitTestSuite{suite},
	}
}
