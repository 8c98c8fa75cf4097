package course

// Seed is the fixture the in-memory store starts with.
func Seed() []Course {
	return []Course{
		{
			CourseID:            "C001",
			CourseName:          "การบริหารจัดการโรงพยาบาล",
			CourseGen:           "รุ่นที่ 15",
			Description:         "หลักสูตรพัฒนาทักษะการบริหารจัดการโรงพยาบาลสำหรับผู้บริหารระดับกลาง",
			StartDate:           "2025-03-15",
			EndDate:             "2025-03-20",
			RegistrationStart:   "2025-01-01",
			RegistrationEnd:     "2025-08-28",
			MaxParticipants:     50,
			CurrentParticipants: 35,
			Location:            "โรงแรมสยาม บางกอก",
			Instructor:          "ดร.สมชาย ใจดี",
			Status:              StatusActive,
		},
		{
			CourseID:            "C002",
			CourseName:          "นโยบายสาธารณสุขแห่งชาติ",
			CourseGen:           "รุ่นที่ 8",
			Description:         "หลักสูตรวิเคราะห์นโยบายสาธารณสุขและการวางแผนเชิงกลยุทธ์",
			StartDate:           "2025-04-10",
			EndDate:             "2025-04-15",
			RegistrationStart:   "2025-02-01",
			RegistrationEnd:     "2025-09-30",
			MaxParticipants:     40,
			CurrentParticipants: 28,
			Location:            "ศูนย์ฝึกอบรมกระทรวงสาธารณสุข",
			Instructor:          "นางสาวสุภาพร แสงทอง",
			Status:              StatusActive,
		},
		{
			CourseID:            "C003",
			CourseName:          "การจัดการทรัพยากรบุคคลในหน่วยงานสาธารณสุข",
			CourseGen:           "รุ่นที่ 12",
			Description:         "พัฒนาทักษะการบริหารทรัพยากรบุคคลในองค์กรภาครัฐ",
			StartDate:           "2025-11-05",
			EndDate:             "2025-11-10",
			RegistrationStart:   "2025-10-01",
			RegistrationEnd:     "2025-10-30",
			MaxParticipants:     35,
			CurrentParticipants: 15,
			Location:            "โรงแรมเซ็นทารา แกรนด์ บางกอก",
			Instructor:          "ผศ.ดร.วิชัย ทองคำ",
			Status:              StatusUpcoming,
		},
		{
			CourseID:            "C004",
			CourseName:          "การเงินและการคลังสำหรับผู้บริหาร",
			CourseGen:           "รุ่นที่ 5",
			Description:         "หลักสูตรพื้นฐานด้านการเงินและการคลังสำหรับโรงพยาบาล",
			StartDate:           "2024-11-10",
			EndDate:             "2024-11-15",
			RegistrationStart:   "2024-09-01",
			RegistrationEnd:     "2024-10-15",
			MaxParticipants:     30,
			CurrentParticipants: 30,
			Location:            "ออนไลน์ผ่าน Zoom",
			Instructor:          "รศ.ดร. สุดา การเงิน",
			Status:              StatusClosed,
		},
	}
}
