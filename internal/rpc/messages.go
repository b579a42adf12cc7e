package rpc

import "google.golang.org/protobuf/encoding/protowire"

// Times travel as "YYYY-MM-DD HH:MM:SS" strings, the same text the engine
// parses.

type Appointment struct {
	Id           string
	TutorId      string
	TutorName    string
	Name         string
	StartTime    string
	EndTime      string
	Place        string
	Mode         string
	MaxSlot      int32
	CurrentSlots []string
	Status       string
}

func (m *Appointment) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.TutorId)
	b = appendString(b, 3, m.TutorName)
	b = appendString(b, 4, m.Name)
	b = appendString(b, 5, m.StartTime)
	b = appendString(b, 6, m.EndTime)
	b = appendString(b, 7, m.Place)
	b = appendString(b, 8, m.Mode)
	b = appendInt32(b, 9, m.MaxSlot)
	b = appendStrings(b, 10, m.CurrentSlots)
	return appendString(b, 11, m.Status)
}

func (m *Appointment) UnmarshalWire(b []byte) error {
	*m = Appointment{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Id)
		case 2:
			return consumeString(typ, b, &m.TutorId)
		case 3:
			return consumeString(typ, b, &m.TutorName)
		case 4:
			return consumeString(typ, b, &m.Name)
		case 5:
			return consumeString(typ, b, &m.StartTime)
		case 6:
			return consumeString(typ, b, &m.EndTime)
		case 7:
			return consumeString(typ, b, &m.Place)
		case 8:
			return consumeString(typ, b, &m.Mode)
		case 9:
			return consumeInt32(typ, b, &m.MaxSlot)
		case 10:
			return consumeStrings(typ, b, &m.CurrentSlots)
		case 11:
			return consumeString(typ, b, &m.Status)
		}
		return 0
	})
}

// ----- auth -----

type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required"`
	Role     string `validate:"omitempty,oneof=TUTOR STUDENT"`
}

func (m *RegisterRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	b = appendString(b, 3, m.Name)
	return appendString(b, 4, m.Role)
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	*m = RegisterRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Email)
		case 2:
			return consumeString(typ, b, &m.Password)
		case 3:
			return consumeString(typ, b, &m.Name)
		case 4:
			return consumeString(typ, b, &m.Role)
		}
		return 0
	})
}

type RegisterResponse struct {
	UserId string
	Token  string
}

func (m *RegisterResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserId)
	return appendString(b, 2, m.Token)
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	*m = RegisterResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserId)
		case 2:
			return consumeString(typ, b, &m.Token)
		}
		return 0
	})
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func (m *LoginRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	*m = LoginRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Email)
		case 2:
			return consumeString(typ, b, &m.Password)
		}
		return 0
	})
}

type LoginResponse struct {
	Token  string
	UserId string
	Name   string
	Role   string
}

func (m *LoginResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendString(b, 2, m.UserId)
	b = appendString(b, 3, m.Name)
	return appendString(b, 4, m.Role)
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	*m = LoginResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Token)
		case 2:
			return consumeString(typ, b, &m.UserId)
		case 3:
			return consumeString(typ, b, &m.Name)
		case 4:
			return consumeString(typ, b, &m.Role)
		}
		return 0
	})
}

// ----- appointments -----

type CreateAppointmentRequest struct {
	Name      string `validate:"required"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`
	Place     string `validate:"required"`
	MaxSlot   *int32 // unset means one seat
}

func (m *CreateAppointmentRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.StartTime)
	b = appendString(b, 3, m.EndTime)
	b = appendString(b, 4, m.Place)
	return appendOptionalInt32(b, 5, m.MaxSlot)
}

func (m *CreateAppointmentRequest) UnmarshalWire(b []byte) error {
	*m = CreateAppointmentRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Name)
		case 2:
			return consumeString(typ, b, &m.StartTime)
		case 3:
			return consumeString(typ, b, &m.EndTime)
		case 4:
			return consumeString(typ, b, &m.Place)
		case 5:
			return consumeOptionalInt32(typ, b, &m.MaxSlot)
		}
		return 0
	})
}

// AppointmentRequest names a single appointment. Cancel, book, unbook and
// minutes lookups all take it.
type AppointmentRequest struct {
	AppointmentId string `validate:"required"`
}

func (m *AppointmentRequest) AppendWire(b []byte) []byte {
	return appendString(b, 1, m.AppointmentId)
}

func (m *AppointmentRequest) UnmarshalWire(b []byte) error {
	*m = AppointmentRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.AppointmentId)
		}
		return 0
	})
}

type AppointmentResponse struct {
	Appointment *Appointment
}

func (m *AppointmentResponse) AppendWire(b []byte) []byte {
	if m.Appointment == nil {
		return b
	}
	return appendMessage(b, 1, m.Appointment)
}

func (m *AppointmentResponse) UnmarshalWire(b []byte) error {
	*m = AppointmentResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			m.Appointment = &Appointment{}
			return consumeMessage(typ, b, m.Appointment)
		}
		return 0
	})
}

type RescheduleAppointmentRequest struct {
	AppointmentId string `validate:"required"`
	StartTime     string `validate:"required"`
	EndTime       string `validate:"required"`
	Place         string `validate:"required"`
	Mode          string
	MaxSlot       *int32 // unset keeps the current capacity
}

func (m *RescheduleAppointmentRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.AppointmentId)
	b = appendString(b, 2, m.StartTime)
	b = appendString(b, 3, m.EndTime)
	b = appendString(b, 4, m.Place)
	b = appendString(b, 5, m.Mode)
	return appendOptionalInt32(b, 6, m.MaxSlot)
}

func (m *RescheduleAppointmentRequest) UnmarshalWire(b []byte) error {
	*m = RescheduleAppointmentRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AppointmentId)
		case 2:
			return consumeString(typ, b, &m.StartTime)
		case 3:
			return consumeString(typ, b, &m.EndTime)
		case 4:
			return consumeString(typ, b, &m.Place)
		case 5:
			return consumeString(typ, b, &m.Mode)
		case 6:
			return consumeOptionalInt32(typ, b, &m.MaxSlot)
		}
		return 0
	})
}

type ListAppointmentsRequest struct {
	TutorId string // empty lists every tutor
}

func (m *ListAppointmentsRequest) AppendWire(b []byte) []byte {
	return appendString(b, 1, m.TutorId)
}

func (m *ListAppointmentsRequest) UnmarshalWire(b []byte) error {
	*m = ListAppointmentsRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.TutorId)
		}
		return 0
	})
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment
}

func (m *ListAppointmentsResponse) AppendWire(b []byte) []byte {
	for _, a := range m.Appointments {
		b = appendMessage(b, 1, a)
	}
	return b
}

func (m *ListAppointmentsResponse) UnmarshalWire(b []byte) error {
	*m = ListAppointmentsResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			a := &Appointment{}
			n := consumeMessage(typ, b, a)
			if n > 0 {
				m.Appointments = append(m.Appointments, a)
			}
			return n
		}
		return 0
	})
}

// ----- minutes -----

type StudentResult struct {
	StudentId string `validate:"required"`
	Score     string
	Note      string
}

func (m *StudentResult) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.StudentId)
	b = appendString(b, 2, m.Score)
	return appendString(b, 3, m.Note)
}

func (m *StudentResult) UnmarshalWire(b []byte) error {
	*m = StudentResult{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.StudentId)
		case 2:
			return consumeString(typ, b, &m.Score)
		case 3:
			return consumeString(typ, b, &m.Note)
		}
		return 0
	})
}

func consumeResult(typ protowire.Type, b []byte, dst *[]*StudentResult) int {
	r := &StudentResult{}
	n := consumeMessage(typ, b, r)
	if n > 0 {
		*dst = append(*dst, r)
	}
	return n
}

type Minutes struct {
	AppointmentId  string
	Content        string
	StudentResults []*StudentResult
	FileLink       string
	CreatedAt      string
}

func (m *Minutes) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.AppointmentId)
	b = appendString(b, 2, m.Content)
	for _, r := range m.StudentResults {
		b = appendMessage(b, 3, r)
	}
	b = appendString(b, 4, m.FileLink)
	return appendString(b, 5, m.CreatedAt)
}

func (m *Minutes) UnmarshalWire(b []byte) error {
	*m = Minutes{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AppointmentId)
		case 2:
			return consumeString(typ, b, &m.Content)
		case 3:
			return consumeResult(typ, b, &m.StudentResults)
		case 4:
			return consumeString(typ, b, &m.FileLink)
		case 5:
			return consumeString(typ, b, &m.CreatedAt)
		}
		return 0
	})
}

type SaveMinutesRequest struct {
	AppointmentId  string `validate:"required"`
	Content        string
	StudentResults []*StudentResult `validate:"dive"`
	FileLink       string
}

func (m *SaveMinutesRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.AppointmentId)
	b = appendString(b, 2, m.Content)
	for _, r := range m.StudentResults {
		b = appendMessage(b, 3, r)
	}
	return appendString(b, 4, m.FileLink)
}

func (m *SaveMinutesRequest) UnmarshalWire(b []byte) error {
	*m = SaveMinutesRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AppointmentId)
		case 2:
			return consumeString(typ, b, &m.Content)
		case 3:
			return consumeResult(typ, b, &m.StudentResults)
		case 4:
			return consumeString(typ, b, &m.FileLink)
		}
		return 0
	})
}

type MinutesResponse struct {
	Minutes *Minutes
}

func (m *MinutesResponse) AppendWire(b []byte) []byte {
	if m.Minutes == nil {
		return b
	}
	return appendMessage(b, 1, m.Minutes)
}

func (m *MinutesResponse) UnmarshalWire(b []byte) error {
	*m = MinutesResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			m.Minutes = &Minutes{}
			return consumeMessage(typ, b, m.Minutes)
		}
		return 0
	})
}

// ----- free schedule -----

type FreeSchedule struct {
	TutorId string
	Week    string
	Cells   []string
	Note    string
}

func (m *FreeSchedule) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.TutorId)
	b = appendString(b, 2, m.Week)
	b = appendStrings(b, 3, m.Cells)
	return appendString(b, 4, m.Note)
}

func (m *FreeSchedule) UnmarshalWire(b []byte) error {
	*m = FreeSchedule{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.TutorId)
		case 2:
			return consumeString(typ, b, &m.Week)
		case 3:
			return consumeStrings(typ, b, &m.Cells)
		case 4:
			return consumeString(typ, b, &m.Note)
		}
		return 0
	})
}

type SaveFreeScheduleRequest struct {
	Week  string
	Cells []string
	Note  string
}

func (m *SaveFreeScheduleRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Week)
	b = appendStrings(b, 2, m.Cells)
	return appendString(b, 3, m.Note)
}

func (m *SaveFreeScheduleRequest) UnmarshalWire(b []byte) error {
	*m = SaveFreeScheduleRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Week)
		case 2:
			return consumeStrings(typ, b, &m.Cells)
		case 3:
			return consumeString(typ, b, &m.Note)
		}
		return 0
	})
}

type GetFreeScheduleRequest struct {
	TutorId string
	Week    string
}

func (m *GetFreeScheduleRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.TutorId)
	return appendString(b, 2, m.Week)
}

func (m *GetFreeScheduleRequest) UnmarshalWire(b []byte) error {
	*m = GetFreeScheduleRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.TutorId)
		case 2:
			return consumeString(typ, b, &m.Week)
		}
		return 0
	})
}

type FreeScheduleResponse struct {
	Schedule *FreeSchedule
}

func (m *FreeScheduleResponse) AppendWire(b []byte) []byte {
	if m.Schedule == nil {
		return b
	}
	return appendMessage(b, 1, m.Schedule)
}

func (m *FreeScheduleResponse) UnmarshalWire(b []byte) error {
	*m = FreeScheduleResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			m.Schedule = &FreeSchedule{}
			return consumeMessage(typ, b, m.Schedule)
		}
		return 0
	})
}

// ----- data sync -----

type TriggerSyncRequest struct {
	Type   string `validate:"required,oneof=PERSONAL ROLE"` // PERSONAL or ROLE
	UserId string // PERSONAL only; empty syncs everyone
}

func (m *TriggerSyncRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Type)
	return appendString(b, 2, m.UserId)
}

func (m *TriggerSyncRequest) UnmarshalWire(b []byte) error {
	*m = TriggerSyncRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Type)
		case 2:
			return consumeString(typ, b, &m.UserId)
		}
		return 0
	})
}

type SyncReport struct {
	Timestamp        string
	Status           string
	Message          string
	RecordsProcessed int32
	Errors           []string
}

func (m *SyncReport) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Timestamp)
	b = appendString(b, 2, m.Status)
	b = appendString(b, 3, m.Message)
	b = appendInt32(b, 4, m.RecordsProcessed)
	return appendStrings(b, 5, m.Errors)
}

func (m *SyncReport) UnmarshalWire(b []byte) error {
	*m = SyncReport{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Timestamp)
		case 2:
			return consumeString(typ, b, &m.Status)
		case 3:
			return consumeString(typ, b, &m.Message)
		case 4:
			return consumeInt32(typ, b, &m.RecordsProcessed)
		case 5:
			return consumeStrings(typ, b, &m.Errors)
		}
		return 0
	})
}

type TriggerSyncResponse struct {
	Report *SyncReport
}

func (m *TriggerSyncResponse) AppendWire(b []byte) []byte {
	if m.Report == nil {
		return b
	}
	return appendMessage(b, 1, m.Report)
}

func (m *TriggerSyncResponse) UnmarshalWire(b []byte) error {
	*m = TriggerSyncResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			m.Report = &SyncReport{}
			return consumeMessage(typ, b, m.Report)
		}
		return 0
	})
}
