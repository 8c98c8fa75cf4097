package registration

// Registration is one participant's enrollment. CourseID and CourseName are
// copied from the course at registration time and are not kept in sync.
type Registration struct {
	RegistrationID   string `json:"registrationId"`
	CourseID         string `json:"courseId"`
	CourseName       string `json:"courseName"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	IDCard           string `json:"idCard"`
	BirthDate        string `json:"birthDate"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Organization     string `json:"organization"`
	Position         string `json:"position"`
	Address          string `json:"address"`
	RegistrationDate string `json:"registrationDate"`
	Status           string `json:"status"`
}

const StatusConfirmed = "confirmed"

func (r Registration) FullName() string {
	return r.FirstName + " " + r.LastName
}

func Seed() []Registration {
	return []Registration{
		{
			RegistrationID:   "R001",
			CourseID:         "C001",
			CourseName:       "การบริหารจัดการโรงพยาบาล",
			FirstName:        "สมศักดิ์",
			LastName:         "เจริญผล",
			IDCard:           "1-2345-67890-12-3",
			BirthDate:        "1985-05-15",
			Phone:            "081-234-5678",
			Email:            "somsak@example.com",
			Organization:     "โรงพยาบาลนครราชสีมา",
			Position:         "ผู้อำนวยการฝ่ายบริหาร",
			Address:          "123 ถนนสุขภาพ ตำบลในเมือง อำเภอเมือง จังหวัดนครราชสีมา 30000",
			RegistrationDate: "2025-01-15",
			Status:           StatusConfirmed,
		},
		{
			RegistrationID:   "R002",
			CourseID:         "C001",
			CourseName:       "การบริหารจัดการโรงพยาบาล",
			FirstName:        "กนกวรรณ",
			LastName:         "พงษ์ศรี",
			IDCard:           "2-3456-78901-23-4",
			BirthDate:        "1988-08-22",
			Phone:            "082-345-6789",
			Email:            "kanokwan@example.com",
			Organization:     "โรงพยาบาลสระบุรี",
			Position:         "หัวหน้าแผนกพยาบาล",
			Address:          "456 หมู่ 7 ตำบลบ้านใหม่ อำเภอเมือง จังหวัดสระบุรี 18000",
			RegistrationDate: "2025-01-20",
			Status:           StatusConfirmed,
		},
	}
}
