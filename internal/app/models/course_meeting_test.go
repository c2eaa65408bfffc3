package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseMeetingOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b CourseMeeting
		want bool
	}{
		{
			name: "identical windows",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 630},
			b:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 630},
			want: true,
		},
		{
			name: "partial overlap",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 630},
			b:    CourseMeeting{Day: 0, StartTime: 600, EndTime: 690},
			want: true,
		},
		{
			name: "one contains the other",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 720},
			b:    CourseMeeting{Day: 0, StartTime: 600, EndTime: 630},
			want: true,
		},
		{
			name: "back to back",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 630},
			b:    CourseMeeting{Day: 0, StartTime: 630, EndTime: 720},
			want: false,
		},
		{
			name: "disjoint same day",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 600},
			b:    CourseMeeting{Day: 0, StartTime: 720, EndTime: 780},
			want: false,
		},
		{
			name: "same window different day",
			a:    CourseMeeting{Day: 0, StartTime: 540, EndTime: 630},
			b:    CourseMeeting{Day: 1, StartTime: 540, EndTime: 630},
			want: false,
		},
		{
			name: "one minute overlap",
			a:    CourseMeeting{Day: 4, StartTime: 540, EndTime: 601},
			b:    CourseMeeting{Day: 4, StartTime: 600, EndTime: 660},
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(&tc.b))
			// Overlap is symmetric
			assert.Equal(t, tc.want, tc.b.Overlaps(&tc.a))
		})
	}
}

func TestCourseMeetingValidate(t *testing.T) {
	valid := CourseMeeting{Day: 0, StartTime: 540, EndTime: 630}
	assert.NoError(t, valid.Validate())

	badDay := CourseMeeting{Day: 7, StartTime: 540, EndTime: 630}
	assert.ErrorIs(t, badDay.Validate(), ErrMeetingDayInvalid)

	negativeDay := CourseMeeting{Day: -1, StartTime: 540, EndTime: 630}
	assert.ErrorIs(t, negativeDay.Validate(), ErrMeetingDayInvalid)

	inverted := CourseMeeting{Day: 0, StartTime: 630, EndTime: 540}
	assert.ErrorIs(t, inverted.Validate(), ErrMeetingTimesInvalid)

	empty := CourseMeeting{Day: 0, StartTime: 540, EndTime: 540}
	assert.ErrorIs(t, empty.Validate(), ErrMeetingTimesInvalid)
}

func TestCourseMeetingWindow(t *testing.T) {
	m := CourseMeeting{Day: 0, StartTime: 540, EndTime: 630}
	assert.Equal(t, "Monday 09:00-10:30", m.Window())

	late := CourseMeeting{Day: 6, StartTime: 585, EndTime: 1305}
	assert.Equal(t, "Sunday 09:45-21:45", late.Window())
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Monday", DayName(0))
	assert.Equal(t, "Sunday", DayName(6))
	assert.Equal(t, "Unknown", DayName(7))
	assert.Equal(t, "Unknown", DayName(-1))
}
